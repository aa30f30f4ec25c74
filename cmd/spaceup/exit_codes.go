package main

import (
	"errors"
	"os"

	"github.com/giladbarnea/spaceup"
	"github.com/giladbarnea/spaceup/internal/config"
	"github.com/giladbarnea/spaceup/internal/dateutil"
)

// Exit codes for the spaceup CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or options
	ExitIO       = 3 // File not found, permission denied, no input
	ExitMismatch = 4 // check found a structural difference
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrMismatch) {
		return ExitMismatch
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoSourceFiles) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, spaceup.ErrInvalidSeparatorPolicy) ||
		errors.Is(err, spaceup.ErrSourceTooLarge) ||
		errors.Is(err, spaceup.ErrInvalidTOCDepth) ||
		errors.Is(err, spaceup.ErrStyleNotFound) ||
		errors.Is(err, spaceup.ErrInvalidAssetPath) ||
		errors.Is(err, spaceup.ErrUnknownHighlightStyle) {
		return ExitUsage
	}

	return ExitGeneral
}

package spaceup

import "errors"

// Sentinel errors for library operations.
var (
	// Parsing options.
	ErrInvalidSeparatorPolicy = errors.New("invalid separator policy")

	// Input validation errors.
	ErrSourceTooLarge  = errors.New("source exceeds maximum size")
	ErrInvalidTOCDepth = errors.New("invalid TOC depth")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Rendering options.
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

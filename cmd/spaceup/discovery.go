package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/giladbarnea/spaceup/internal/fileutil"
)

// ErrInvalidExtension is returned for an input file that is not a source document.
var ErrInvalidExtension = errors.New("file must have .sup or .spaceup extension")

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all source files to convert.
// output is a directory, or for a single input file also a .html path or "-".
func discoverFiles(inputPath, output string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSourceExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := singleOutputPath(inputPath, output)
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	if output == stdio || isHTMLPath(output) {
		return nil, fmt.Errorf("%w: output for a directory must be a directory, got %q", ErrUsage, output)
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsSourceFile(path) {
			return nil
		}
		outPath, err := fileutil.OutputPath(path, inputPath, output)
		if err != nil {
			return err
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// singleOutputPath resolves the output of a single input file.
func singleOutputPath(inputPath, output string) (string, error) {
	if output == stdio || isHTMLPath(output) {
		return output, nil
	}
	return fileutil.OutputPath(inputPath, "", output)
}

func isHTMLPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), fileutil.OutputExtension)
}

// validateSourceExtension checks that the file has a source document extension.
func validateSourceExtension(path string) error {
	if !fileutil.IsSourceFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

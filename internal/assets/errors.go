package assets

import "errors"

var (
	// ErrStyleNotFound is returned when no loader has the requested style.
	ErrStyleNotFound = errors.New("style not found")

	// ErrTemplateNotFound is returned for any template other than the page
	// template, or when the page template is missing from a custom directory.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName is returned for names that are not plain words
	// made of letters, digits, '-' and '_'.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath is returned when a custom asset directory is unusable.
	ErrInvalidBasePath = errors.New("invalid asset path")

	// ErrAssetRead wraps I/O failures other than a missing file.
	ErrAssetRead = errors.New("reading asset")

	// ErrPathTraversal is returned when a custom asset resolves outside its
	// base directory.
	ErrPathTraversal = errors.New("asset escapes base directory")
)

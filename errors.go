package iconset

import (
	"fmt"
	"strings"
)

// Code identifies the stage and kind of a generation failure.
type Code string

const (
	CodeCatalogUnavailable     Code = "CATALOG_UNAVAILABLE"
	CodeCatalogMalformed       Code = "CATALOG_MALFORMED"
	CodeInvalidFamilySelection Code = "INVALID_FAMILY_SELECTION"
	CodeInvalidSizeSpec        Code = "INVALID_SIZE_SPEC"
	CodeInvalidSource          Code = "INVALID_SOURCE"
	CodeDirectoryCreateFailed  Code = "DIRECTORY_CREATE_FAILED"
	CodeManifestWriteFailed    Code = "MANIFEST_WRITE_FAILED"
	CodeImageResampleFailed    Code = "IMAGE_RESAMPLE_FAILED"
	CodeImageEncodeFailed      Code = "IMAGE_ENCODE_FAILED"
)

// Stage reports which part of the pipeline a code belongs to.
func (c Code) Stage() string {
	switch c {
	case CodeCatalogUnavailable, CodeCatalogMalformed:
		return "catalog"
	case CodeInvalidFamilySelection, CodeInvalidSizeSpec:
		return "resolution"
	case CodeInvalidSource:
		return "source"
	case CodeDirectoryCreateFailed:
		return "directory"
	case CodeManifestWriteFailed:
		return "manifest"
	case CodeImageResampleFailed, CodeImageEncodeFailed:
		return "image"
	}
	return "unknown"
}

// Sentinels for use with errors.Is. Any *Error with the same Code matches.
var (
	ErrCatalogUnavailable     = &Error{Code: CodeCatalogUnavailable}
	ErrCatalogMalformed       = &Error{Code: CodeCatalogMalformed}
	ErrInvalidFamilySelection = &Error{Code: CodeInvalidFamilySelection}
	ErrInvalidSizeSpec        = &Error{Code: CodeInvalidSizeSpec}
	ErrInvalidSource          = &Error{Code: CodeInvalidSource}
	ErrDirectoryCreateFailed  = &Error{Code: CodeDirectoryCreateFailed}
	ErrManifestWriteFailed    = &Error{Code: CodeManifestWriteFailed}
	ErrImageResampleFailed    = &Error{Code: CodeImageResampleFailed}
	ErrImageEncodeFailed      = &Error{Code: CodeImageEncodeFailed}
)

// Error is the terminal failure of a generation request.
type Error struct {
	Code Code
	// Filename of the variant being processed, if any.
	Filename string
	// Message is a human readable description of what went wrong.
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.Stage())
	if e.Filename != "" {
		fmt.Fprintf(&b, " %s", e.Filename)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else {
		fmt.Fprintf(&b, ": %s", strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func fail(code Code, filename string, err error, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Filename: filename,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

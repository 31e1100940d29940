package model

import "errors"

// Sentinel error kinds. Wrap these with fmt.Errorf("...: %w", ErrXxx) at the
// call site so callers can errors.Is against the kind while still getting a
// path/field-specific message.
var (
	// ErrIO covers file-unreadable, stat-failed, and decompress-read failures.
	ErrIO = errors.New("io error")

	// ErrFormat covers decompression or XML parse rejecting the payload.
	ErrFormat = errors.New("format error")

	// ErrElementNotFound covers a required XML element missing where an
	// extractor declared it mandatory.
	ErrElementNotFound = errors.New("element not found")

	// ErrExtraction covers a recoverable field-level failure: invalid hex
	// blob, decode failure, missing marker.
	ErrExtraction = errors.New("extraction error")

	// ErrInvalidPath covers scanner input rejection.
	ErrInvalidPath = errors.New("invalid path")

	// ErrCatalog covers uniqueness or referential violations at commit.
	ErrCatalog = errors.New("catalog error")
)

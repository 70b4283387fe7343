package ffl

import (
	"errors"

	"ffl-directory/feature/ffl/search"
)

var (
	// ErrStoreUnavailable is returned when the directory store cannot be read or written.
	// A sync that fails with it produced no result and left no partial writes.
	ErrStoreUnavailable = errors.New("directory store unavailable")

	// ErrInvalidQuery is returned for malformed search options or license numbers.
	ErrInvalidQuery = search.ErrInvalidQuery

	// ErrNotFound is returned when a license is not in the directory.
	ErrNotFound = errors.New("license not found")

	// ErrInvalidUpload is returned when an uploaded file cannot be decoded.
	ErrInvalidUpload = errors.New("invalid upload")
)

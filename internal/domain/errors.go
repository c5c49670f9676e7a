package domain

import "errors"

// Error kinds of the matching core. Callers compare with errors.Is.
var (
	// ErrInvalidCoordinate - malformed, non-finite or out of range input
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrIndexUnavailable - no index generation has been published yet
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrInvalidPage - page number outside the result set
	ErrInvalidPage = errors.New("invalid page")

	// ErrNotFound - identifier lookups with no hit
	ErrNotFound = errors.New("not found")
)

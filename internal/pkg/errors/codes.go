package errors

import "net/http"

const (
	CodeInvalidCoordinates = "INVALID_COORDINATES"
	CodeInvalidPage        = "INVALID_PAGE"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeIndexUnavailable   = "INDEX_UNAVAILABLE"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidCoordinates = New(
		CodeInvalidCoordinates,
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidPage = New(
		CodeInvalidPage,
		"Invalid page number",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Could not find any addresses matching query",
		http.StatusNotFound,
	)

	ErrIndexUnavailable = New(
		CodeIndexUnavailable,
		"Address index is not available yet",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/ais-service/internal/domain"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails returns a copy carrying details; the receiver is left untouched
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy with a different message
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// FromDomain maps domain error kinds to API errors. Unknown errors become ErrInternalServer.
func FromDomain(err error) *AppError {
	var appErr *AppError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, domain.ErrInvalidCoordinate):
		return ErrInvalidCoordinates.WithDetails(map[string]interface{}{"reason": err.Error()})
	case stderrors.Is(err, domain.ErrInvalidPage):
		return ErrInvalidPage.WithDetails(map[string]interface{}{"reason": err.Error()})
	case stderrors.Is(err, domain.ErrNotFound):
		return ErrNotFound.WithDetails(map[string]interface{}{"reason": err.Error()})
	case stderrors.Is(err, domain.ErrIndexUnavailable):
		return ErrIndexUnavailable
	default:
		return ErrInternalServer
	}
}

package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ais-service/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - {"status": 404, "error": {"code", "message", "details"}}
type ErrorResponse struct {
	Status int              `json:"status"`
	Error  *errors.AppError `json:"error"`
}

type Meta struct {
	Total      int     `json:"total,omitempty"`
	Page       int     `json:"page,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Generation string  `json:"generation,omitempty"`
	TimeMSec   float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendJSON writes a bare document. GeoJSON responses are not wrapped in the data envelope.
func SendJSON(c *fiber.Ctx, document interface{}) error {
	return c.JSON(document)
}

// SendError maps err to an API error and writes the error envelope
func SendError(c *fiber.Ctx, err error) error {
	appErr := errors.FromDomain(err)
	if appErr == nil {
		appErr = errors.ErrInternalServer
	}
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Status: appErr.StatusCode,
		Error:  appErr,
	})
}

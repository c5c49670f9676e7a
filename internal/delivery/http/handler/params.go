package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ais-service/internal/pkg/errors"
)

// parseCoords reads an "x,y" path segment. Both parts must be finite numbers.
func parseCoords(raw string) (x, y float64, err error) {
	value, err := url.PathUnescape(raw)
	if err != nil {
		return 0, 0, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"coords": raw})
	}

	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return 0, 0, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"coords": value})
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return 0, 0, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"coords": value})
	}
	return x, y, nil
}

// pathValue returns an unescaped path parameter
func pathValue(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}

// queryInt reads an optional integer query parameter. A malformed value is a request error,
// never silently replaced by the default.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{name: raw})
	}
	return v, nil
}

func queryPage(c *fiber.Ctx) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrInvalidPage.WithDetails(map[string]interface{}{"page": raw})
	}
	return v, nil
}

// queryFlag reports a switch parameter. A bare or non-boolean "?name" turns it on,
// only an explicit false value turns it off.
func queryFlag(c *fiber.Ctx, name string) bool {
	if !c.Context().QueryArgs().Has(name) {
		return false
	}
	v, err := strconv.ParseBool(c.Query(name))
	return err != nil || v
}

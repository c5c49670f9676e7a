package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ais-service/internal/pkg/utils"
	"github.com/ais-service/internal/usecase/dto"
)

// ReverseGeocoder is satisfied by usecase.ReverseGeocodeUseCase
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, req dto.ReverseGeocodeRequest) (*dto.FeatureCollection, error)
}

// ReverseGeocodeHandler - nearest addresses to a coordinate
type ReverseGeocodeHandler struct {
	reverseUC ReverseGeocoder
	logger    *zap.Logger
}

func NewReverseGeocodeHandler(reverseUC ReverseGeocoder, logger *zap.Logger) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{
		reverseUC: reverseUC,
		logger:    logger,
	}
}

// ReverseGeocode godoc
// @Summary Reverse geocode a coordinate
// @Description Returns the addresses whose curb or range geocode lies within the search radius, nearest first. The input reference (WGS84 or PA State Plane South, US ft) is detected from the values.
// @Tags Reverse Geocode
// @Produce json
// @Param coords path string true "x,y as lon,lat or state plane easting,northing" example(-75.1627,39.9522)
// @Param page query int false "Page number" default(1)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /reverse_geocode/{coords} [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *fiber.Ctx) error {
	var req dto.ReverseGeocodeRequest
	var err error

	req.Query = pathValue(c, "coords")
	if req.X, req.Y, err = parseCoords(req.Query); err != nil {
		return utils.SendError(c, err)
	}
	if req.Page, err = queryPage(c); err != nil {
		return utils.SendError(c, err)
	}
	if req.SRID, err = queryInt(c, "srid", 4326); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reverseUC.ReverseGeocode(c.UserContext(), req)
	if err != nil {
		h.logger.Debug("Reverse geocode failed", zap.String("query", req.Query), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, result)
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ais-service/internal/pkg/utils"
	"github.com/ais-service/internal/usecase/dto"
)

// ServiceAreaResolver is satisfied by usecase.ServiceAreaUseCase
type ServiceAreaResolver interface {
	ServiceAreas(ctx context.Context, req dto.ServiceAreaRequest) (*dto.ServiceAreaResponse, error)
}

// ServiceAreaHandler - service area values at a coordinate
type ServiceAreaHandler struct {
	serviceAreaUC ServiceAreaResolver
	logger        *zap.Logger
}

func NewServiceAreaHandler(serviceAreaUC ServiceAreaResolver, logger *zap.Logger) *ServiceAreaHandler {
	return &ServiceAreaHandler{
		serviceAreaUC: serviceAreaUC,
		logger:        logger,
	}
}

// ServiceAreas godoc
// @Summary Service areas at a coordinate
// @Description Evaluates every service area layer at the point. A layer without a containing polygon is returned as an empty string.
// @Tags Service Areas
// @Produce json
// @Param coords path string true "x,y as lon,lat or state plane easting,northing" example(-75.1627,39.9522)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Success 200 {object} dto.ServiceAreaResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /service_areas/{coords} [get]
func (h *ServiceAreaHandler) ServiceAreas(c *fiber.Ctx) error {
	var req dto.ServiceAreaRequest
	var err error

	req.Query = pathValue(c, "coords")
	if req.X, req.Y, err = parseCoords(req.Query); err != nil {
		return utils.SendError(c, err)
	}
	if req.SRID, err = queryInt(c, "srid", 4326); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.serviceAreaUC.ServiceAreas(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, result)
}

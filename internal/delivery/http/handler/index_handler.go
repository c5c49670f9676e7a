package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ais-service/internal/pkg/utils"
	"github.com/ais-service/internal/usecase/dto"
)

// IndexInspector is satisfied by usecase.IndexUseCase
type IndexInspector interface {
	Stats(ctx context.Context) (*dto.IndexStats, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

// IndexHandler - health and statistics of the generation in service
type IndexHandler struct {
	indexUC IndexInspector
	logger  *zap.Logger
}

func NewIndexHandler(indexUC IndexInspector, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{
		indexUC: indexUC,
		logger:  logger,
	}
}

// Health godoc
// @Summary Service health
// @Description 200 once an index generation is in service, 503 before the first build succeeds.
// @Tags Index
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *IndexHandler) Health(c *fiber.Ctx) error {
	resp, err := h.indexUC.Health(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// Stats godoc
// @Summary Index statistics
// @Description Counts, build duration and the last rebuild error of the generation in service.
// @Tags Index
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.IndexStats}
// @Failure 503 {object} utils.ErrorResponse
// @Router /index/stats [get]
func (h *IndexHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.indexUC.Stats(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, stats, &utils.Meta{
		Total:      stats.Addresses,
		Generation: stats.GenerationID,
	})
}

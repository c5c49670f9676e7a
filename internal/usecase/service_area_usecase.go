package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/pkg/errors"
	"github.com/ais-service/internal/pkg/validator"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase/dto"
)

// ServiceAreaResult - values of every layer at a point
type ServiceAreaResult struct {
	Generation *spatial.Generation
	Query      domain.Coordinate
	Areas      domain.ServiceAreas
	Polygons   map[domain.ServiceAreaLayer]string
}

// ServiceAreaUseCase - point in polygon over all service area layers
type ServiceAreaUseCase struct {
	generations IndexReader
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	envelope    spatial.Envelope
	cacheTTL    time.Duration
}

func NewServiceAreaUseCase(
	generations IndexReader,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	envelope spatial.Envelope,
	cacheTTL time.Duration,
) *ServiceAreaUseCase {
	if !envelope.Valid() {
		envelope = spatial.DefaultEnvelope
	}
	return &ServiceAreaUseCase{
		generations: generations,
		cacheRepo:   cacheRepo,
		logger:      logger,
		envelope:    envelope,
		cacheTTL:    cacheTTL,
	}
}

// Resolve evaluates every layer independently. A layer without a containing polygon stays empty
// and never affects the other layers.
func (uc *ServiceAreaUseCase) Resolve(ctx context.Context, coord domain.Coordinate) (*ServiceAreaResult, error) {
	normalized, err := spatial.Normalize(coord, uc.envelope)
	if err != nil {
		return nil, err
	}
	gen, err := uc.generations.Current()
	if err != nil {
		return nil, err
	}
	return uc.resolve(gen, normalized), nil
}

func (uc *ServiceAreaUseCase) resolve(gen *spatial.Generation, normalized domain.Coordinate) *ServiceAreaResult {
	result := &ServiceAreaResult{
		Generation: gen,
		Query:      normalized,
		Polygons:   make(map[domain.ServiceAreaLayer]string),
	}
	for _, layer := range domain.ServiceAreaLayers {
		p, ok := gen.Index.Containing(normalized, layer)
		if !ok {
			continue
		}
		// layers come from the closed list, Set cannot fail here
		_ = result.Areas.Set(layer, p.Value)
		result.Polygons[layer] = p.ID
	}
	return result
}

// ServiceAreas renders the values at a point as a GeoJSON-like feature
func (uc *ServiceAreaUseCase) ServiceAreas(ctx context.Context, req dto.ServiceAreaRequest) (*dto.ServiceAreaResponse, error) {
	if req.SRID == 0 {
		req.SRID = int(domain.SRIDWGS84)
	}
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	coord := domain.Coordinate{X: req.X, Y: req.Y, SRID: spatial.DetectSRID(req.X, req.Y)}
	normalized, err := spatial.Normalize(coord, uc.envelope)
	if err != nil {
		return nil, err
	}
	gen, err := uc.generations.Current()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%ssa:%.2f:%.2f:%d", cachePrefix(gen), normalized.X, normalized.Y, req.SRID)
	var cached dto.ServiceAreaResponse
	if cacheGet(ctx, uc.cacheRepo, uc.logger, key, &cached) {
		// equivalent inputs share an entry, the echo belongs to this request
		cached.Query = req.Query
		return &cached, nil
	}

	result := uc.resolve(gen, normalized)
	geometry, err := pointGeometry(normalized, "", outputSRID(req.SRID))
	if err != nil {
		return nil, err
	}

	resp := &dto.ServiceAreaResponse{
		Type:           dto.TypeFeature,
		AISFeatureType: dto.FeatureTypeServiceAreas,
		Query:          req.Query,
		SearchParams:   dto.SearchParams{SRID: req.SRID},
		ServiceAreas:   result.Areas,
		Covered:        result.Areas.Covered(),
		Geometry:       *geometry,
	}

	cacheSet(ctx, uc.cacheRepo, uc.logger, key, resp, uc.cacheTTL)
	return resp, nil
}

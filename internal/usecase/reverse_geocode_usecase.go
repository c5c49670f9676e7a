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

// MatchParams - tunables of reverse geocoding
type MatchParams struct {
	// MaxRadius - search radius in feet
	MaxRadius float64
	PageSize  int
	Envelope  spatial.Envelope
	CacheTTL  time.Duration
}

// MatchPage - one page of distance ordered matches
type MatchPage struct {
	Generation *spatial.Generation
	Query      domain.Coordinate
	Matches    []domain.Match
	Page       int
	PageCount  int
	PageSize   int
	TotalSize  int
}

// ReverseGeocodeUseCase - nearest addresses to a coordinate
type ReverseGeocodeUseCase struct {
	generations IndexReader
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	params      MatchParams
}

func NewReverseGeocodeUseCase(
	generations IndexReader,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	params MatchParams,
) *ReverseGeocodeUseCase {
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if !params.Envelope.Valid() {
		params.Envelope = spatial.DefaultEnvelope
	}
	return &ReverseGeocodeUseCase{
		generations: generations,
		cacheRepo:   cacheRepo,
		logger:      logger,
		params:      params,
	}
}

// Match returns the page-th page of addresses whose eligible geocodes lie within the search radius.
// Each address appears once, at the distance of its closest geocode.
func (uc *ReverseGeocodeUseCase) Match(ctx context.Context, coord domain.Coordinate, page int) (*MatchPage, error) {
	normalized, err := spatial.Normalize(coord, uc.params.Envelope)
	if err != nil {
		return nil, err
	}
	gen, err := uc.generations.Current()
	if err != nil {
		return nil, err
	}
	return uc.match(gen, normalized, page)
}

func (uc *ReverseGeocodeUseCase) match(gen *spatial.Generation, normalized domain.Coordinate, page int) (*MatchPage, error) {
	hits := gen.Index.Nearest(normalized, 0, uc.params.MaxRadius)

	// hits are ordered by distance, address key and curb-first, so the first hit of an address is the one to keep
	seen := make(map[string]struct{}, len(hits))
	matches := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		key := hit.Address.StreetAddress
		if _, ok := seen[key]; ok {
			continue
		}
		matchType, err := domain.MatchTypeFor(hit.Geocode.Type.Provenance())
		if err != nil {
			uc.logger.Warn("Skipping geocode without match type",
				zap.String("street_address", key),
				zap.String("geocode_type", string(hit.Geocode.Type)))
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, domain.Match{
			Address:   hit.Address,
			Geocode:   hit.Geocode,
			MatchType: matchType,
			Distance:  hit.Distance,
		})
	}

	w, err := paginate(len(matches), uc.params.PageSize, page)
	if err != nil {
		return nil, err
	}

	return &MatchPage{
		Generation: gen,
		Query:      normalized,
		Matches:    matches[w.Start:w.End],
		Page:       w.Page,
		PageCount:  w.PageCount,
		PageSize:   w.PageSize,
		TotalSize:  w.TotalSize,
	}, nil
}

// ReverseGeocode renders a match page as a GeoJSON feature collection
func (uc *ReverseGeocodeUseCase) ReverseGeocode(ctx context.Context, req dto.ReverseGeocodeRequest) (*dto.FeatureCollection, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.SRID == 0 {
		req.SRID = int(domain.SRIDWGS84)
	}
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidPage)
	}
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	coord := domain.Coordinate{X: req.X, Y: req.Y, SRID: spatial.DetectSRID(req.X, req.Y)}
	normalized, err := spatial.Normalize(coord, uc.params.Envelope)
	if err != nil {
		return nil, err
	}
	gen, err := uc.generations.Current()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%srg:%.2f:%.2f:%d:%d", cachePrefix(gen), normalized.X, normalized.Y, req.Page, req.SRID)
	var cached dto.FeatureCollection
	if cacheGet(ctx, uc.cacheRepo, uc.logger, key, &cached) {
		// equivalent inputs share an entry, the echo belongs to this request
		cached.Query = req.Query
		return &cached, nil
	}

	mp, err := uc.match(gen, normalized, req.Page)
	if err != nil {
		return nil, err
	}

	srid := outputSRID(req.SRID)
	resp := &dto.FeatureCollection{
		Type:           dto.TypeFeatureCollection,
		AISFeatureType: dto.FeatureTypeAddress,
		SearchType:     dto.SearchTypeCoordinates,
		Query:          req.Query,
		Normalized:     fmt.Sprintf("%.2f,%.2f", normalized.X, normalized.Y),
		SearchParams: dto.SearchParams{
			SRID:      req.SRID,
			MaxRadius: uc.params.MaxRadius,
		},
		Page:      mp.Page,
		PageCount: mp.PageCount,
		PageSize:  mp.PageSize,
		TotalSize: mp.TotalSize,
		Features:  make([]dto.AddressFeature, 0, len(mp.Matches)),
	}
	for i := range mp.Matches {
		m := &mp.Matches[i]
		distance := m.Distance
		f, err := addressFeature(m.Address, &m.Geocode, m.MatchType, &distance, srid)
		if err != nil {
			return nil, err
		}
		resp.Features = append(resp.Features, f)
	}

	uc.logger.Debug("Reverse geocode",
		zap.String("query", req.Query),
		zap.String("generation", gen.ID.String()),
		zap.Int("total", mp.TotalSize))

	cacheSet(ctx, uc.cacheRepo, uc.logger, key, resp, uc.params.CacheTTL)
	return resp, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase/dto"
)

const defaultPageSize = 100

// IndexReader - access to the index generation in service
type IndexReader interface {
	Current() (*spatial.Generation, error)
}

// outputSRID - srid requested for response geometries, 4326 when not given
func outputSRID(srid int) domain.SRID {
	if srid == 0 {
		return domain.SRIDWGS84
	}
	return domain.SRID(srid)
}

func pointGeometry(c domain.Coordinate, geocodeType domain.GeocodeType, srid domain.SRID) (*dto.PointGeometry, error) {
	if c.SRID == 0 {
		c.SRID = domain.SRIDStatePlane
	}
	out, err := spatial.Reproject(c, srid)
	if err != nil {
		return nil, err
	}
	return &dto.PointGeometry{
		Type:        dto.TypePoint,
		GeocodeType: string(geocodeType),
		Coordinates: out.Pair(),
	}, nil
}

func addressFeature(rec *domain.AddressRecord, g *domain.Geocode, matchType domain.MatchType, distance *float64, srid domain.SRID) (dto.AddressFeature, error) {
	f := dto.AddressFeature{
		Type:           dto.TypeFeature,
		AISFeatureType: dto.FeatureTypeAddress,
		MatchType:      string(matchType),
		Properties: dto.AddressProperties{
			AddressRecord: *rec,
			Distance:      distance,
		},
	}
	if g != nil {
		geometry, err := pointGeometry(g.Point, g.Type, srid)
		if err != nil {
			return dto.AddressFeature{}, err
		}
		f.Geometry = geometry
	}
	return f, nil
}

// preferredGeocode - geocode shown for an address found by identifier: best ranked of any type
func preferredGeocode(rec *domain.AddressRecord) *domain.Geocode {
	var best *domain.Geocode
	for i := range rec.Geocodes {
		g := &rec.Geocodes[i]
		if !g.Point.Finite() {
			continue
		}
		if best == nil || g.Less(*best) {
			best = g
		}
	}
	return best
}

// cachePrefix scopes cached responses to one generation so a rebuild never serves stale results
func cachePrefix(gen *spatial.Generation) string {
	return "ais:" + gen.ID.String() + ":"
}

// cacheGet decodes a cached value into out. Misses and cache failures return false.
func cacheGet(ctx context.Context, repo repository.CacheRepository, logger *zap.Logger, key string, out interface{}) bool {
	if repo == nil {
		return false
	}
	data, err := repo.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Cached value is corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// cacheSet stores v as JSON. Failures are only logged.
func cacheSet(ctx context.Context, repo repository.CacheRepository, logger *zap.Logger, key string, v interface{}, ttl time.Duration) {
	if repo == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := repo.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

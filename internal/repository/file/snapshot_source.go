package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
)

// Snapshot file names inside the source directory
const (
	AddressesFile    = "addresses.geojson"
	ServiceAreasFile = "service_areas.geojson"
	LayersDir        = "layers"
)

type snapshotSource struct {
	dir    string
	logger *zap.Logger
}

// NewSnapshotSource reads an exported snapshot directory:
//
//	addresses.geojson      one Point feature per geocode, address attributes in properties
//	service_areas.geojson  Polygon/MultiPolygon features with layer, id and value properties
//	layers/<layer>.shp     optional shapefile per layer, added to the polygons above
func NewSnapshotSource(dir string, logger *zap.Logger) repository.SnapshotSource {
	return &snapshotSource{
		dir:    dir,
		logger: logger,
	}
}

func (s *snapshotSource) Name() string {
	return "file:" + s.dir
}

func (s *snapshotSource) Load(ctx context.Context) (*domain.Dataset, error) {
	started := time.Now()

	addrPath := filepath.Join(s.dir, AddressesFile)
	info, err := os.Stat(addrPath)
	if err != nil {
		return nil, eris.Wrapf(err, "file: stat %s", addrPath)
	}

	addresses, astats, err := readAddresses(addrPath)
	if err != nil {
		return nil, eris.Wrapf(err, "file: read %s", addrPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var polygons []domain.ServiceAreaPolygon
	saPath := filepath.Join(s.dir, ServiceAreasFile)
	skipped := 0
	if _, err := os.Stat(saPath); err == nil {
		polygons, skipped, err = readServiceAreas(saPath)
		if err != nil {
			return nil, eris.Wrapf(err, "file: read %s", saPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrapf(err, "file: stat %s", saPath)
	}

	fromShapes, shapeSkipped, err := readLayerShapefiles(filepath.Join(s.dir, LayersDir), s.logger)
	if err != nil {
		return nil, err
	}
	polygons = append(polygons, fromShapes...)
	skipped += shapeSkipped

	ds := &domain.Dataset{
		Addresses: addresses,
		Polygons:  polygons,
		Version:   fmt.Sprintf("%s-%d", info.ModTime().UTC().Format(time.RFC3339), info.Size()),
		Source:    s.Name(),
		LoadedAt:  time.Now().UTC(),
	}

	s.logger.Info("Snapshot loaded from files",
		zap.String("dir", s.dir),
		zap.Int("addresses", len(addresses)),
		zap.Int("geocodes", astats.geocodes),
		zap.Int("skipped_features", astats.skipped),
		zap.Int("polygons", len(polygons)),
		zap.Int("skipped_polygons", skipped),
		zap.Duration("duration", time.Since(started)),
	)
	return ds, nil
}

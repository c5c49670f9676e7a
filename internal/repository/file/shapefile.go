package file

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/spatial"
)

// Attribute names read from layer shapefiles, case-insensitive
const (
	shapeFieldID    = "id"
	shapeFieldValue = "value"
)

// readLayerShapefiles loads dir/<layer>.shp for every known layer. A missing dir is not an error.
func readLayerShapefiles(dir string, logger *zap.Logger) ([]domain.ServiceAreaPolygon, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, eris.Wrapf(err, "file: read %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".shp") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var (
		polygons []domain.ServiceAreaPolygon
		skipped  int
	)
	for _, name := range names {
		layer, err := domain.ParseServiceAreaLayer(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			logger.Warn("Ignoring shapefile of unknown layer", zap.String("file", name))
			continue
		}
		path := filepath.Join(dir, name)
		got, n, err := readShapefile(path, layer)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "file: read shapefile %s", path)
		}
		logger.Debug("Layer shapefile loaded",
			zap.String("layer", string(layer)),
			zap.Int("polygons", len(got)),
			zap.Int("skipped", n))
		polygons = append(polygons, got...)
		skipped += n
	}
	return polygons, skipped, nil
}

func readShapefile(path string, layer domain.ServiceAreaLayer) ([]domain.ServiceAreaPolygon, int, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = reader.Close() }()

	idIdx, valueIdx := -1, -1
	for i, f := range reader.Fields() {
		switch strings.ToLower(strings.TrimRight(f.String(), "\x00")) {
		case shapeFieldID:
			idIdx = i
		case shapeFieldValue:
			valueIdx = i
		}
	}
	if valueIdx < 0 {
		return nil, 0, eris.Errorf("missing %s attribute", strings.ToUpper(shapeFieldValue))
	}

	// shapefiles carry no srid, a lon/lat box means geographic
	box := reader.BBox()
	srid := domain.SRIDStatePlane
	if spatial.DetectSRID(box.MinX, box.MinY) == domain.SRIDWGS84 && spatial.DetectSRID(box.MaxX, box.MaxY) == domain.SRIDWGS84 {
		srid = domain.SRIDWGS84
	}

	var (
		polygons []domain.ServiceAreaPolygon
		skipped  int
	)
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := shapeToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		prepared, err := spatial.PrepareMultiPolygon(mp, srid)
		if err != nil {
			skipped++
			continue
		}

		id := strconv.Itoa(n)
		if idIdx >= 0 {
			if v := attribute(reader, idIdx); v != "" {
				id = v
			}
		}
		polygons = append(polygons, domain.ServiceAreaPolygon{
			Layer:    layer,
			ID:       id,
			Value:    attribute(reader, valueIdx),
			Geometry: prepared,
		})
	}
	return polygons, skipped, nil
}

func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// shapeToMultiPolygon groups shapefile parts into polygons: a clockwise ring starts a polygon and
// the counter-clockwise rings after it are its holes.
func shapeToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var coords [][][]geom.Coord
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		// closed rings only; orientation is undefined below four points
		if end-start < 4 {
			continue
		}

		ring := make([]geom.Coord, 0, end-start)
		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			ring = append(ring, geom.Coord{p.Points[j].X, p.Points[j].Y})
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		if len(coords) > 0 && xy.IsRingCounterClockwise(geom.XY, flat) {
			last := len(coords) - 1
			coords[last] = append(coords[last], ring)
			continue
		}
		coords = append(coords, [][]geom.Coord{ring})
	}
	if len(coords) == 0 {
		return nil
	}

	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(coords)
	if err != nil {
		return nil
	}
	return mp
}

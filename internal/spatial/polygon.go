package spatial

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"

	"github.com/ais-service/internal/domain"
)

type polygonItem struct {
	rect    rtreego.Rect
	polygon *domain.ServiceAreaPolygon
}

func (p *polygonItem) Bounds() rtreego.Rect {
	return p.rect
}

// layerIndex - bounding box tree over the polygons of one layer
type layerIndex struct {
	tree *rtreego.Rtree
}

func (idx *Index) buildLayers(polygons []domain.ServiceAreaPolygon) {
	byLayer := make(map[domain.ServiceAreaLayer][]rtreego.Spatial)

	owned := make([]domain.ServiceAreaPolygon, len(polygons))
	copy(owned, polygons)

	for i := range owned {
		p := &owned[i]
		if _, err := domain.ParseServiceAreaLayer(string(p.Layer)); err != nil {
			idx.stats.SkippedPolygons++
			continue
		}
		rect, ok := polygonBounds(p.Geometry)
		if !ok {
			idx.stats.SkippedPolygons++
			continue
		}
		byLayer[p.Layer] = append(byLayer[p.Layer], &polygonItem{rect: rect, polygon: p})
	}

	for layer, items := range byLayer {
		idx.layers[layer] = &layerIndex{
			tree: rtreego.NewTree(treeDim, treeMinChildren, treeMaxChildren, items...),
		}
		idx.stats.Polygons[layer] = len(items)
	}
}

func polygonBounds(mp *geom.MultiPolygon) (rtreego.Rect, bool) {
	if mp == nil || mp.NumPolygons() == 0 {
		return rtreego.Rect{}, false
	}
	b := mp.Bounds()
	minX, minY, maxX, maxY := b.Min(0), b.Min(1), b.Max(0), b.Max(1)
	for _, v := range []float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rtreego.Rect{}, false
		}
	}
	if minX >= maxX || minY >= maxY {
		return rtreego.Rect{}, false
	}
	rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// containing picks the polygon holding c. A point strictly inside a polygon wins over one on a
// boundary; among equals the smallest polygon id wins, so shared edges resolve the same way every time.
func (l *layerIndex) containing(c domain.Coordinate) *domain.ServiceAreaPolygon {
	candidates := l.tree.SearchIntersect(pointRect(c.X, c.Y))

	var (
		best    *domain.ServiceAreaPolygon
		bestLoc location.Type
	)
	pt := geom.Coord{c.X, c.Y}
	for _, s := range candidates {
		item := s.(*polygonItem)
		loc := locate(item.polygon.Geometry, pt)
		if loc == location.Exterior {
			continue
		}
		if best == nil || better(loc, item.polygon, bestLoc, best) {
			best, bestLoc = item.polygon, loc
		}
	}
	return best
}

func better(loc location.Type, p *domain.ServiceAreaPolygon, bestLoc location.Type, best *domain.ServiceAreaPolygon) bool {
	if loc != bestLoc {
		return loc == location.Interior
	}
	return p.ID < best.ID
}

func locate(mp *geom.MultiPolygon, pt geom.Coord) location.Type {
	result := location.Exterior
	for i := 0; i < mp.NumPolygons(); i++ {
		switch locateInPolygon(mp.Polygon(i), pt) {
		case location.Interior:
			return location.Interior
		case location.Boundary:
			result = location.Boundary
		}
	}
	return result
}

// locateInPolygon treats rings after the first as holes
func locateInPolygon(poly *geom.Polygon, pt geom.Coord) location.Type {
	if poly.NumLinearRings() == 0 {
		return location.Exterior
	}
	layout := poly.Layout()

	shell := xy.LocatePointInRing(layout, pt, poly.LinearRing(0).FlatCoords())
	if shell != location.Interior {
		return shell
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		switch xy.LocatePointInRing(layout, pt, poly.LinearRing(i).FlatCoords()) {
		case location.Interior:
			return location.Exterior
		case location.Boundary:
			return location.Boundary
		}
	}
	return location.Interior
}

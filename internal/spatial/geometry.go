package spatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/ais-service/internal/domain"
)

// PrepareMultiPolygon turns a decoded polygon geometry into a closed-ring state plane MultiPolygon.
// srid is the reference the coordinates are expressed in; 0 means the geometry's own SRID, and an
// unset SRID is taken as state plane.
func PrepareMultiPolygon(g geom.T, srid domain.SRID) (*geom.MultiPolygon, error) {
	mp, err := asMultiPolygon(g)
	if err != nil {
		return nil, err
	}
	if srid == 0 {
		srid = domain.SRID(mp.SRID())
	}
	if srid == 0 {
		srid = domain.SRIDStatePlane
	}
	if !srid.Valid() {
		return nil, eris.Errorf("spatial: unsupported polygon srid %d", srid)
	}

	coords := mp.Coords()
	for i := range coords {
		for j, ring := range coords[i] {
			if srid == domain.SRIDWGS84 {
				for k := range ring {
					ring[k][0], ring[k][1] = ToStatePlane(ring[k][0], ring[k][1])
				}
			}
			coords[i][j] = closeRing(ring)
		}
	}

	out, err := geom.NewMultiPolygon(geom.XY).SetCoords(flattenXY(coords))
	if err != nil {
		return nil, eris.Wrap(err, "spatial: rebuild polygon")
	}
	return out.SetSRID(int(domain.SRIDStatePlane)), nil
}

// PointFromGeometry extracts the state plane coordinate of a decoded point geometry
func PointFromGeometry(g geom.T, srid domain.SRID) (domain.Coordinate, error) {
	p, ok := g.(*geom.Point)
	if !ok {
		return domain.Coordinate{}, eris.Errorf("spatial: expected point, got %T", g)
	}
	if p.Empty() {
		return domain.Coordinate{}, eris.New("spatial: empty point")
	}
	if srid == 0 {
		srid = domain.SRID(p.SRID())
	}
	if srid == 0 {
		srid = domain.SRIDStatePlane
	}
	return Reproject(domain.Coordinate{X: p.X(), Y: p.Y(), SRID: srid}, domain.SRIDStatePlane)
}

func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(t.Layout()).SetSRID(t.SRID())
		if err := mp.Push(t); err != nil {
			return nil, eris.Wrap(err, "spatial: wrap polygon")
		}
		return mp, nil
	case nil:
		return nil, eris.New("spatial: missing geometry")
	default:
		return nil, eris.Errorf("spatial: expected polygon, got %T", g)
	}
}

func closeRing(ring []geom.Coord) []geom.Coord {
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, geom.Coord{first[0], first[1]})
	}
	return ring
}

// flattenXY drops any Z or M ordinates
func flattenXY(coords [][][]geom.Coord) [][][]geom.Coord {
	for i := range coords {
		for j := range coords[i] {
			for k, c := range coords[i][j] {
				if len(c) > 2 {
					coords[i][j][k] = geom.Coord{c[0], c[1]}
				}
			}
		}
	}
	return coords
}

package spatial

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/ais-service/internal/domain"
)

// Envelope - plausible state plane extent of the served area, in feet
type Envelope struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// DefaultEnvelope covers Philadelphia county with a few miles of margin
var DefaultEnvelope = Envelope{
	MinX: 2500000,
	MinY: 160000,
	MaxX: 2900000,
	MaxY: 360000,
}

// Contains reports whether a state plane point lies inside the envelope (edges included)
func (e Envelope) Contains(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// Valid reports whether the envelope is a non-empty finite rectangle
func (e Envelope) Valid() bool {
	for _, v := range []float64{e.MinX, e.MinY, e.MaxX, e.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return e.MinX < e.MaxX && e.MinY < e.MaxY
}

// DetectSRID disambiguates input by value range: anything that can be a lon/lat pair is geographic
func DetectSRID(x, y float64) domain.SRID {
	if math.Abs(x) <= 180 && math.Abs(y) <= 90 {
		return domain.SRIDWGS84
	}
	return domain.SRIDStatePlane
}

// Normalize validates a coordinate and converts it to the canonical state plane reference
func Normalize(c domain.Coordinate, env Envelope) (domain.Coordinate, error) {
	if !c.Finite() {
		return domain.Coordinate{}, eris.Wrap(domain.ErrInvalidCoordinate, "non-finite component")
	}

	var x, y float64
	switch c.SRID {
	case domain.SRIDWGS84:
		if c.X < -180 || c.X > 180 || c.Y < -90 || c.Y > 90 {
			return domain.Coordinate{}, eris.Wrapf(domain.ErrInvalidCoordinate, "lon/lat %g,%g out of range", c.X, c.Y)
		}
		x, y = ToStatePlane(c.X, c.Y)
	case domain.SRIDStatePlane:
		x, y = c.X, c.Y
	default:
		return domain.Coordinate{}, eris.Wrapf(domain.ErrInvalidCoordinate, "unsupported srid %d", c.SRID)
	}

	if math.IsNaN(x) || math.IsNaN(y) || !env.Contains(x, y) {
		return domain.Coordinate{}, eris.Wrapf(domain.ErrInvalidCoordinate, "%g,%g outside the served area", c.X, c.Y)
	}

	return domain.Coordinate{X: x, Y: y, SRID: domain.SRIDStatePlane}, nil
}

// Reproject converts a coordinate between geographic and state plane references
func Reproject(c domain.Coordinate, srid domain.SRID) (domain.Coordinate, error) {
	if c.SRID == srid {
		return c, nil
	}
	switch {
	case c.SRID == domain.SRIDStatePlane && srid == domain.SRIDWGS84:
		lon, lat := ToGeographic(c.X, c.Y)
		return domain.Coordinate{X: lon, Y: lat, SRID: srid}, nil
	case c.SRID == domain.SRIDWGS84 && srid == domain.SRIDStatePlane:
		x, y := ToStatePlane(c.X, c.Y)
		return domain.Coordinate{X: x, Y: y, SRID: srid}, nil
	default:
		return domain.Coordinate{}, eris.Wrapf(domain.ErrInvalidCoordinate, "cannot reproject %d to %d", c.SRID, srid)
	}
}

// Distance - planar distance between two state plane points, in feet
func Distance(a, b domain.Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

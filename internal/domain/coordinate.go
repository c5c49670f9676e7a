package domain

import (
	"fmt"
	"math"
)

// SRID - spatial reference identifier of a coordinate
type SRID int

const (
	// SRIDWGS84 - geographic WGS84, degrees (lon, lat)
	SRIDWGS84 SRID = 4326
	// SRIDStatePlane - NAD83 / Pennsylvania South, US survey feet. Canonical reference for all spatial queries.
	SRIDStatePlane SRID = 2272
)

// Valid reports whether the srid is one of the supported references
func (s SRID) Valid() bool {
	return s == SRIDWGS84 || s == SRIDStatePlane
}

// Coordinate - a point tagged with its spatial reference
type Coordinate struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	SRID SRID    `json:"srid"`
}

// Finite reports whether both components are finite numbers
func (c Coordinate) Finite() bool {
	return !math.IsNaN(c.X) && !math.IsInf(c.X, 0) && !math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s,%s@%d", formatFloat(c.X), formatFloat(c.Y), c.SRID)
}

// Pair returns the coordinate as a GeoJSON position
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.X, c.Y}
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

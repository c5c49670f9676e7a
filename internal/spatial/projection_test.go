package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/spatial"
)

const (
	cityHallLon = -75.16097658476633
	cityHallLat = 39.951661655671955
	cityHallX   = 2694253.78730206
	cityHallY   = 235887.921013063
)

func TestToStatePlane_KnownPoint(t *testing.T) {
	x, y := spatial.ToStatePlane(cityHallLon, cityHallLat)
	assert.InDelta(t, cityHallX, x, 1e-3)
	assert.InDelta(t, cityHallY, y, 1e-3)
}

func TestToGeographic_KnownPoint(t *testing.T) {
	lon, lat := spatial.ToGeographic(cityHallX, cityHallY)
	assert.InDelta(t, cityHallLon, lon, 1e-8)
	assert.InDelta(t, cityHallLat, lat, 1e-8)
}

func TestProjection_RoundTrip(t *testing.T) {
	for lon := -75.30; lon <= -74.95; lon += 0.05 {
		for lat := 39.85; lat <= 40.15; lat += 0.05 {
			x, y := spatial.ToStatePlane(lon, lat)
			gotLon, gotLat := spatial.ToGeographic(x, y)
			assert.InDelta(t, lon, gotLon, 1e-9, "lon %f lat %f", lon, lat)
			assert.InDelta(t, lat, gotLat, 1e-9, "lon %f lat %f", lon, lat)
		}
	}
}

func TestDetectSRID(t *testing.T) {
	assert.Equal(t, domain.SRIDWGS84, spatial.DetectSRID(cityHallLon, cityHallLat))
	assert.Equal(t, domain.SRIDStatePlane, spatial.DetectSRID(cityHallX, cityHallY))
	assert.Equal(t, domain.SRIDWGS84, spatial.DetectSRID(180, -90))
	assert.Equal(t, domain.SRIDStatePlane, spatial.DetectSRID(180.5, 10))
}

func TestNormalize(t *testing.T) {
	t.Run("geographic and state plane inputs agree", func(t *testing.T) {
		fromGeo, err := spatial.Normalize(domain.Coordinate{X: cityHallLon, Y: cityHallLat, SRID: domain.SRIDWGS84}, spatial.DefaultEnvelope)
		require.NoError(t, err)
		fromPlane, err := spatial.Normalize(domain.Coordinate{X: cityHallX, Y: cityHallY, SRID: domain.SRIDStatePlane}, spatial.DefaultEnvelope)
		require.NoError(t, err)

		assert.Equal(t, domain.SRIDStatePlane, fromGeo.SRID)
		assert.InDelta(t, fromPlane.X, fromGeo.X, 1e-3)
		assert.InDelta(t, fromPlane.Y, fromGeo.Y, 1e-3)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]domain.Coordinate{
			"nan":              {X: math.NaN(), Y: 1, SRID: domain.SRIDStatePlane},
			"inf":              {X: math.Inf(1), Y: 1, SRID: domain.SRIDWGS84},
			"latitude range":   {X: -75, Y: 91, SRID: domain.SRIDWGS84},
			"outside the city": {X: -80.0, Y: 40.4, SRID: domain.SRIDWGS84},
			"outside envelope": {X: 100000, Y: 100000, SRID: domain.SRIDStatePlane},
			"unsupported srid": {X: cityHallX, Y: cityHallY, SRID: domain.SRID(3857)},
		}
		for name, c := range cases {
			_, err := spatial.Normalize(c, spatial.DefaultEnvelope)
			assert.ErrorIs(t, err, domain.ErrInvalidCoordinate, name)
		}
	})
}

func TestReproject(t *testing.T) {
	plane := domain.Coordinate{X: cityHallX, Y: cityHallY, SRID: domain.SRIDStatePlane}

	same, err := spatial.Reproject(plane, domain.SRIDStatePlane)
	require.NoError(t, err)
	assert.Equal(t, plane, same)

	geo, err := spatial.Reproject(plane, domain.SRIDWGS84)
	require.NoError(t, err)
	assert.Equal(t, domain.SRIDWGS84, geo.SRID)
	assert.InDelta(t, cityHallLon, geo.X, 1e-8)
	assert.InDelta(t, cityHallLat, geo.Y, 1e-8)

	_, err = spatial.Reproject(plane, domain.SRID(3857))
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}

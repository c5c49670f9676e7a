package geocode_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/geocode"
)

func point(t domain.GeocodeType, x, y float64) domain.Geocode {
	return domain.Geocode{Type: t, Point: domain.Coordinate{X: x, Y: y, SRID: domain.SRIDStatePlane}}
}

func TestResolver_Eligible(t *testing.T) {
	r, err := geocode.NewResolver(nil)
	require.NoError(t, err)

	t.Run("union of curb and range, curb first", func(t *testing.T) {
		rec := &domain.AddressRecord{
			StreetAddress: "1234 MARKET ST",
			Geocodes: []domain.Geocode{
				point(domain.GeocodeFullRange, 2694000, 236000),
				point(domain.GeocodePWDParcel, 2694010, 236010),
				point(domain.GeocodeDORCurb, 2694020, 236000),
				point(domain.GeocodeCenterline, 2694030, 236000),
				point(domain.GeocodePWDCurb, 2694040, 236000),
				point(domain.GeocodeTrueRange, 2694050, 236000),
			},
		}

		got := r.Eligible(rec)
		require.Len(t, got, 4)
		assert.Equal(t, domain.GeocodePWDCurb, got[0].Type)
		assert.Equal(t, domain.GeocodeDORCurb, got[1].Type)
		assert.Equal(t, domain.GeocodeTrueRange, got[2].Type)
		assert.Equal(t, domain.GeocodeFullRange, got[3].Type)
		for _, g := range got {
			assert.Equal(t, "1234 MARKET ST", g.AddressKey)
		}
	})

	t.Run("range only address is kept", func(t *testing.T) {
		rec := &domain.AddressRecord{
			StreetAddress: "1236 MARKET ST",
			Geocodes:      []domain.Geocode{point(domain.GeocodeTrueRange, 2694000, 236000)},
		}
		got := r.Eligible(rec)
		require.Len(t, got, 1)
		assert.Equal(t, domain.ProvenanceFullRange, got[0].Type.Provenance())
	})

	t.Run("ghost records yield nothing", func(t *testing.T) {
		assert.Empty(t, r.Eligible(nil))
		assert.Empty(t, r.Eligible(&domain.AddressRecord{StreetAddress: "1 A ST"}))
		assert.Empty(t, r.Eligible(&domain.AddressRecord{
			StreetAddress: "2 A ST",
			Geocodes: []domain.Geocode{
				point(domain.GeocodePWDCurb, math.NaN(), 236000),
				point(domain.GeocodeDORCurb, 0, 0),
				point(domain.GeocodePWDParcel, 2694000, 236000),
			},
		}))
	})

	t.Run("duplicates and foreign geocodes are dropped", func(t *testing.T) {
		foreign := point(domain.GeocodePWDCurb, 2694100, 236000)
		foreign.AddressKey = "9 OTHER ST"
		rec := &domain.AddressRecord{
			StreetAddress: "3 A ST",
			Geocodes: []domain.Geocode{
				point(domain.GeocodePWDCurb, 2694000, 236000),
				point(domain.GeocodePWDCurb, 2694000, 236000),
				foreign,
			},
		}
		assert.Len(t, r.Eligible(rec), 1)
	})
}

func TestNewResolver(t *testing.T) {
	r, err := geocode.NewResolver(nil)
	require.NoError(t, err)
	assert.Equal(t, geocode.DefaultTypes, r.Types())

	r, err = geocode.NewResolver([]domain.GeocodeType{domain.GeocodeTrueRange, domain.GeocodePWDCurb})
	require.NoError(t, err)
	assert.Equal(t, []domain.GeocodeType{domain.GeocodePWDCurb, domain.GeocodeTrueRange}, r.Types())

	_, err = geocode.NewResolver([]domain.GeocodeType{domain.GeocodePWDParcel})
	assert.Error(t, err)
}

func TestParseTypes(t *testing.T) {
	types, err := geocode.ParseTypes(" pwd_curb, full_range ,")
	require.NoError(t, err)
	assert.Equal(t, []domain.GeocodeType{domain.GeocodePWDCurb, domain.GeocodeFullRange}, types)

	types, err = geocode.ParseTypes("")
	require.NoError(t, err)
	assert.Empty(t, types)

	_, err = geocode.ParseTypes("pwd_curb,rooftop")
	assert.Error(t, err)
}

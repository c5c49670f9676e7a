package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/geocode"
	"github.com/ais-service/internal/spatial"
)

// City Hall in both references
const (
	cityLon = -75.16097658476633
	cityLat = 39.951661655671955
	cityX   = 2694253.78730206
	cityY   = 235887.921013063
)

func geocodeAt(t domain.GeocodeType, x, y float64) domain.Geocode {
	return domain.Geocode{Type: t, Point: domain.Coordinate{X: x, Y: y, SRID: domain.SRIDStatePlane}}
}

func square(cx, cy, half float64) *geom.MultiPolygon {
	return geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{{{
		{cx - half, cy - half}, {cx + half, cy - half}, {cx + half, cy + half}, {cx - half, cy + half}, {cx - half, cy - half},
	}}})
}

// wardEdgeX - x of the edge shared by wards 08 and 05
const wardEdgeX = 2694500.0

func testDataset() *domain.Dataset {
	jfk := domain.AddressRecord{
		StreetAddress: "1400 JOHN F KENNEDY BLVD",
		AddressLow:    1400,
		StreetName:    "JOHN F KENNEDY",
		StreetSuffix:  "BLVD",
		ZipCode:       "19107",
		PWDParcelID:   "542372",
		DORParcelID:   "001S070144",
		OPAAccountNum: "883309050",
		OPAOwners:     []string{"CITY OF PHILA"},
		Geocodes: []domain.Geocode{
			geocodeAt(domain.GeocodePWDParcel, cityX+5, cityY),
			geocodeAt(domain.GeocodeDORCurb, cityX+35, cityY),
			geocodeAt(domain.GeocodePWDCurb, cityX+30, cityY),
		},
	}
	jfk.PoliticalWard = "08"

	pennSq := domain.AddressRecord{
		StreetAddress: "1 S PENN SQ",
		AddressLow:    1,
		StreetPredir:  "S",
		StreetName:    "PENN",
		StreetSuffix:  "SQ",
		PWDParcelID:   "542372",
		Geocodes:      []domain.Geocode{geocodeAt(domain.GeocodeTrueRange, cityX-50, cityY)},
	}

	ghost := domain.AddressRecord{
		StreetAddress: "1401 JOHN F KENNEDY BLVD",
		AddressLow:    1401,
		StreetName:    "JOHN F KENNEDY",
		StreetSuffix:  "BLVD",
		Geocodes:      []domain.Geocode{geocodeAt(domain.GeocodePWDParcel, cityX, cityY+10)},
	}

	market := domain.AddressRecord{
		StreetAddress: "1500 MARKET ST",
		AddressLow:    1500,
		StreetName:    "MARKET",
		StreetSuffix:  "ST",
		OPAAccountNum: "883100000",
		OPAOwners:     []string{"PENN CENTER HOUSE LLC"},
		Geocodes:      []domain.Geocode{geocodeAt(domain.GeocodePWDCurb, cityX+1000, cityY)},
	}

	return &domain.Dataset{
		Addresses: []domain.AddressRecord{market, ghost, pennSq, jfk},
		Polygons: []domain.ServiceAreaPolygon{
			{Layer: domain.LayerPoliticalWard, ID: "08", Value: "08", Geometry: square(2694000, 236000, 500)},
			{Layer: domain.LayerPoliticalWard, ID: "05", Value: "05", Geometry: square(2695000, 236000, 500)},
			{Layer: domain.LayerPoliceDistrict, ID: "6", Value: "6", Geometry: square(2694000, 236000, 2000)},
			{Layer: domain.LayerZoning, ID: "z-far", Value: "RSA5", Geometry: square(2704000, 236000, 100)},
		},
		Version: "test-1",
		Source:  "fixture",
	}
}

func publishedStore(t *testing.T, ds *domain.Dataset) *spatial.GenerationStore {
	t.Helper()
	resolver, err := geocode.NewResolver(nil)
	require.NoError(t, err)
	idx, err := spatial.Build(ds, resolver)
	require.NoError(t, err)

	store := spatial.NewGenerationStore()
	store.Publish(spatial.NewGeneration(idx, ds))
	return store
}

package file

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/spatial"
)

type featureJSON struct {
	Type       string          `json:"type"`
	ID         flexString      `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type crsJSON struct {
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
}

// flexString accepts a JSON string or number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return eris.Wrap(err, "expected string or number")
	}
	*s = flexString(n.String())
	return nil
}

type addressProperties struct {
	domain.AddressRecord
	GeocodeType domain.GeocodeType `json:"geocode_type"`
}

type polygonProperties struct {
	Layer string     `json:"layer"`
	ID    flexString `json:"id"`
	Value flexString `json:"value"`
}

type addressStats struct {
	geocodes int
	skipped  int
}

type pendingGeocode struct {
	addr     int
	typ      domain.GeocodeType
	geometry geom.T
}

type pendingPolygon struct {
	props    polygonProperties
	geometry geom.T
}

// readAddresses merges features by street_address. A feature without geometry contributes the
// address only.
func readAddresses(path string) ([]domain.AddressRecord, addressStats, error) {
	var (
		stats   addressStats
		records []domain.AddressRecord
		pending []pendingGeocode
		n       int
	)
	byKey := make(map[string]int)

	srid, err := streamCollection(path, func(f *featureJSON) error {
		n++
		var props addressProperties
		if len(f.Properties) > 0 {
			if err := json.Unmarshal(f.Properties, &props); err != nil {
				return eris.Wrapf(err, "feature %d: properties", n)
			}
		}
		key := strings.TrimSpace(props.StreetAddress)
		if key == "" {
			stats.skipped++
			return nil
		}

		i, ok := byKey[key]
		if !ok {
			rec := props.AddressRecord
			rec.StreetAddress = key
			rec.Geocodes = nil
			i = len(records)
			records = append(records, rec)
			byKey[key] = i
		}

		g, err := decodeGeometry(f.Geometry)
		if err != nil {
			stats.skipped++
			return nil
		}
		if g == nil {
			return nil
		}
		if _, err := domain.ParseGeocodeType(string(props.GeocodeType)); err != nil {
			stats.skipped++
			return nil
		}
		pending = append(pending, pendingGeocode{addr: i, typ: props.GeocodeType, geometry: g})
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	// the collection srid may follow the features
	for _, p := range pending {
		pt, err := spatial.PointFromGeometry(p.geometry, srid)
		if err != nil {
			stats.skipped++
			continue
		}
		rec := &records[p.addr]
		rec.Geocodes = append(rec.Geocodes, domain.Geocode{
			Type:       p.typ,
			Point:      pt,
			AddressKey: rec.StreetAddress,
		})
		stats.geocodes++
	}
	return records, stats, nil
}

func readServiceAreas(path string) ([]domain.ServiceAreaPolygon, int, error) {
	var (
		pending []pendingPolygon
		skipped int
		n       int
	)

	srid, err := streamCollection(path, func(f *featureJSON) error {
		n++
		var props polygonProperties
		if len(f.Properties) > 0 {
			if err := json.Unmarshal(f.Properties, &props); err != nil {
				return eris.Wrapf(err, "feature %d: properties", n)
			}
		}
		if props.ID == "" {
			props.ID = f.ID
		}
		if props.ID == "" {
			props.ID = flexString(strconv.Itoa(n))
		}
		g, err := decodeGeometry(f.Geometry)
		if err != nil || g == nil {
			skipped++
			return nil
		}
		pending = append(pending, pendingPolygon{props: props, geometry: g})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	polygons := make([]domain.ServiceAreaPolygon, 0, len(pending))
	for _, p := range pending {
		mp, err := spatial.PrepareMultiPolygon(p.geometry, srid)
		if err != nil {
			skipped++
			continue
		}
		polygons = append(polygons, domain.ServiceAreaPolygon{
			Layer:    domain.ServiceAreaLayer(p.props.Layer),
			ID:       string(p.props.ID),
			Value:    string(p.props.Value),
			Geometry: mp,
		})
	}
	return polygons, skipped, nil
}

func decodeGeometry(raw json.RawMessage) (geom.T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return g, nil
}

// streamCollection decodes a FeatureCollection one feature at a time. It returns the srid declared by
// the collection's "srid" member or named "crs", 0 when neither is present.
func streamCollection(path string, fn func(f *featureJSON) error) (domain.SRID, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	dec := json.NewDecoder(bufio.NewReaderSize(file, 1<<20))
	if err := expectDelim(dec, '{'); err != nil {
		return 0, err
	}

	var srid domain.SRID
	var crsName string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return 0, err
		}
		key, _ := tok.(string)
		switch key {
		case "srid":
			var v int
			if err := dec.Decode(&v); err != nil {
				return 0, eris.Wrap(err, "srid")
			}
			srid = domain.SRID(v)
		case "crs":
			var c crsJSON
			if err := dec.Decode(&c); err != nil {
				return 0, eris.Wrap(err, "crs")
			}
			crsName = c.Properties.Name
		case "features":
			if err := expectDelim(dec, '['); err != nil {
				return 0, err
			}
			for dec.More() {
				var f featureJSON
				if err := dec.Decode(&f); err != nil {
					return 0, err
				}
				if err := fn(&f); err != nil {
					return 0, err
				}
			}
			if err := expectDelim(dec, ']'); err != nil {
				return 0, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return 0, err
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return 0, err
	}

	if srid == 0 && crsName != "" {
		if srid, err = sridFromCRS(crsName); err != nil {
			return 0, err
		}
	}
	if srid != 0 && !srid.Valid() {
		return 0, eris.Errorf("unsupported srid %d", srid)
	}
	return srid, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return eris.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// sridFromCRS understands "EPSG:2272", "urn:ogc:def:crs:EPSG::2272" and OGC CRS84.
// Any other name is an error rather than a silent fallback to state plane.
func sridFromCRS(name string) (domain.SRID, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(upper, "CRS84"):
		return domain.SRIDWGS84, nil
	case strings.HasSuffix(upper, ":4326"):
		return domain.SRIDWGS84, nil
	case strings.HasSuffix(upper, ":2272"):
		return domain.SRIDStatePlane, nil
	default:
		return 0, eris.Errorf("unsupported crs %q", name)
	}
}

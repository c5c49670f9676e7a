package domain

import "fmt"

// GeocodeType - kind of geocode attached to an address
type GeocodeType string

const (
	GeocodePWDParcel  GeocodeType = "pwd_parcel"
	GeocodeDORParcel  GeocodeType = "dor_parcel"
	GeocodePWDCurb    GeocodeType = "pwd_curb"
	GeocodeDORCurb    GeocodeType = "dor_curb"
	GeocodeTrueRange  GeocodeType = "true_range"
	GeocodeFullRange  GeocodeType = "full_range"
	GeocodeCenterline GeocodeType = "centerline"
)

// geocodeTypeCodes maps the integer codes stored by the AIS engine to types
var geocodeTypeCodes = map[int]GeocodeType{
	1: GeocodePWDParcel,
	2: GeocodeDORParcel,
	3: GeocodePWDCurb,
	4: GeocodeDORCurb,
	5: GeocodeTrueRange,
	6: GeocodeFullRange,
	7: GeocodeCenterline,
}

// GeocodeTypeFromCode resolves an engine integer code
func GeocodeTypeFromCode(code int) (GeocodeType, error) {
	t, ok := geocodeTypeCodes[code]
	if !ok {
		return "", fmt.Errorf("unknown geocode type code %d", code)
	}
	return t, nil
}

// ParseGeocodeType validates a textual geocode type
func ParseGeocodeType(s string) (GeocodeType, error) {
	t := GeocodeType(s)
	if t.Provenance() == ProvenanceUnknown {
		return "", fmt.Errorf("unknown geocode type %q", s)
	}
	return t, nil
}

// Provenance - where a geocode's position comes from
type Provenance int

const (
	ProvenanceUnknown Provenance = iota
	// ProvenanceCurb - projected onto the curb in front of the parcel
	ProvenanceCurb
	// ProvenanceFullRange - interpolated along the street address range; covers addresses with no parcel
	ProvenanceFullRange
	// ProvenanceParcel - parcel centroid
	ProvenanceParcel
	// ProvenanceCenterline - point on the street centerline
	ProvenanceCenterline
)

// Provenance classifies the geocode type
func (t GeocodeType) Provenance() Provenance {
	switch t {
	case GeocodePWDCurb, GeocodeDORCurb:
		return ProvenanceCurb
	case GeocodeTrueRange, GeocodeFullRange:
		return ProvenanceFullRange
	case GeocodePWDParcel, GeocodeDORParcel:
		return ProvenanceParcel
	case GeocodeCenterline:
		return ProvenanceCenterline
	default:
		return ProvenanceUnknown
	}
}

// rank orders types inside one provenance so that ties are stable
func (t GeocodeType) rank() int {
	switch t {
	case GeocodePWDCurb:
		return 0
	case GeocodeDORCurb:
		return 1
	case GeocodeTrueRange:
		return 2
	case GeocodeFullRange:
		return 3
	case GeocodePWDParcel:
		return 4
	case GeocodeDORParcel:
		return 5
	case GeocodeCenterline:
		return 6
	default:
		return 7
	}
}

// Geocode - a state plane point for an address
type Geocode struct {
	Type       GeocodeType `json:"geocode_type"`
	Point      Coordinate  `json:"point"`
	AddressKey string      `json:"street_address"`
}

// Less orders two geocodes of equal distance: curb before range, then by type
func (g Geocode) Less(other Geocode) bool {
	return g.Type.rank() < other.Type.rank()
}

// MatchType - provenance of a reverse geocode match as reported to clients
type MatchType string

const (
	MatchTypeCurb      MatchType = "curb"
	MatchTypeFullRange MatchType = "full_range"
)

// MatchTypeFor maps a provenance to the reported match type.
// Only curb and range geocodes take part in reverse geocoding.
func MatchTypeFor(p Provenance) (MatchType, error) {
	switch p {
	case ProvenanceCurb:
		return MatchTypeCurb, nil
	case ProvenanceFullRange:
		return MatchTypeFullRange, nil
	case ProvenanceParcel, ProvenanceCenterline, ProvenanceUnknown:
		return "", fmt.Errorf("provenance %d is not matchable", p)
	default:
		return "", fmt.Errorf("unknown provenance %d", p)
	}
}

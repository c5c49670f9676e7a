package geocode

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ais-service/internal/domain"
)

// DefaultTypes - curb geocodes plus range geocodes. Range geocodes are included in addition to curb ones
// so that addresses without a parcel are still found.
var DefaultTypes = []domain.GeocodeType{
	domain.GeocodePWDCurb,
	domain.GeocodeDORCurb,
	domain.GeocodeTrueRange,
	domain.GeocodeFullRange,
}

// Resolver decides which geocodes of an address take part in reverse geocoding
type Resolver struct {
	types map[domain.GeocodeType]struct{}
}

// NewResolver creates a resolver for the given types. An empty list means DefaultTypes.
// Only curb and range types are accepted since they are the only ones with a match type.
func NewResolver(types []domain.GeocodeType) (*Resolver, error) {
	if len(types) == 0 {
		types = DefaultTypes
	}
	r := &Resolver{types: make(map[domain.GeocodeType]struct{}, len(types))}
	for _, t := range types {
		if _, err := domain.MatchTypeFor(t.Provenance()); err != nil {
			return nil, eris.Wrapf(err, "geocode type %q cannot be used for matching", t)
		}
		r.types[t] = struct{}{}
	}
	return r, nil
}

// ParseTypes parses a comma separated list such as "pwd_curb,true_range"
func ParseTypes(s string) ([]domain.GeocodeType, error) {
	var result []domain.GeocodeType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := domain.ParseGeocodeType(part)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// Types returns the configured types in rank order
func (r *Resolver) Types() []domain.GeocodeType {
	result := make([]domain.GeocodeType, 0, len(r.types))
	for t := range r.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return domain.Geocode{Type: result[i]}.Less(domain.Geocode{Type: result[j]})
	})
	return result
}

// Eligible returns the usable geocodes of rec, curb first. A record with none yields an empty slice.
func (r *Resolver) Eligible(rec *domain.AddressRecord) []domain.Geocode {
	if rec == nil || len(rec.Geocodes) == 0 {
		return nil
	}

	result := make([]domain.Geocode, 0, len(rec.Geocodes))
	for _, g := range rec.Geocodes {
		if _, ok := r.types[g.Type]; !ok {
			continue
		}
		if !usable(g.Point) {
			continue
		}
		if g.AddressKey == "" {
			g.AddressKey = rec.StreetAddress
		}
		if g.AddressKey != rec.StreetAddress {
			continue
		}
		if duplicate(result, g) {
			continue
		}
		result = append(result, g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Less(result[j])
	})
	return result
}

func usable(c domain.Coordinate) bool {
	if !c.Finite() {
		return false
	}
	if c.X == 0 && c.Y == 0 {
		return false
	}
	return c.SRID == domain.SRIDStatePlane || c.SRID == 0
}

func duplicate(list []domain.Geocode, g domain.Geocode) bool {
	for _, existing := range list {
		if existing.Type == g.Type && existing.Point.X == g.Point.X && existing.Point.Y == g.Point.Y {
			return true
		}
	}
	return false
}

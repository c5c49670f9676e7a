package domain

// Match - one address found by reverse geocoding
type Match struct {
	Address   *AddressRecord
	Geocode   Geocode
	MatchType MatchType
	// Distance - feet between the query point and the geocode, in the state plane reference
	Distance float64
}

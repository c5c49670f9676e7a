package dto

// ReverseGeocodeRequest - GET /reverse_geocode/{x},{y}
type ReverseGeocodeRequest struct {
	Query string
	X     float64
	Y     float64
	Page  int `validate:"min=1"`
	// SRID - output reference; the input reference is detected from the values
	SRID int `validate:"srid"`
}

// ServiceAreaRequest - GET /service_areas/{x},{y}
type ServiceAreaRequest struct {
	Query string
	X     float64
	Y     float64
	SRID  int `validate:"srid"`
}

// LookupKind - identifier looked up by LookupRequest
type LookupKind string

const (
	LookupAccount   LookupKind = "account"
	LookupPWDParcel LookupKind = "pwd_parcel_id"
	LookupDORParcel LookupKind = "dor_parcel_id"
	LookupOwner     LookupKind = "owner"
)

// LookupRequest - GET /account/{number}, /pwd_parcel_id/{id}, /dor_parcel_id/{id}, /owner/{query}
type LookupRequest struct {
	Kind    LookupKind `validate:"required,oneof=account pwd_parcel_id dor_parcel_id owner"`
	Query   string     `validate:"required,max=200"`
	Page    int        `validate:"min=1"`
	SRID    int        `validate:"srid"`
	OPAOnly bool
}

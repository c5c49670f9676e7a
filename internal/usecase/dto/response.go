package dto

import (
	"time"

	"github.com/ais-service/internal/domain"
)

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePoint             = "Point"

	FeatureTypeAddress      = "address"
	FeatureTypeServiceAreas = "service_areas"

	SearchTypeCoordinates = "coordinates"
	SearchTypeAccount     = "opa_account"
	SearchTypePWDParcel   = "pwd_parcel_id"
	SearchTypeDORParcel   = "dor_parcel_id"
	SearchTypeOwner       = "owner"
)

// FeatureCollection - paginated GeoJSON collection of addresses
type FeatureCollection struct {
	Type           string           `json:"type"`
	AISFeatureType string           `json:"ais_feature_type"`
	SearchType     string           `json:"search_type"`
	Query          string           `json:"query"`
	Normalized     string           `json:"normalized,omitempty"`
	SearchParams   SearchParams     `json:"search_params"`
	Page           int              `json:"page"`
	PageCount      int              `json:"page_count"`
	PageSize       int              `json:"page_size"`
	TotalSize      int              `json:"total_size"`
	Features       []AddressFeature `json:"features"`
}

type SearchParams struct {
	SRID      int     `json:"srid"`
	MaxRadius float64 `json:"max_radius,omitempty"`
	OPAOnly   bool    `json:"opa_only,omitempty"`
}

type AddressFeature struct {
	Type           string            `json:"type"`
	AISFeatureType string            `json:"ais_feature_type"`
	MatchType      string            `json:"match_type,omitempty"`
	Properties     AddressProperties `json:"properties"`
	Geometry       *PointGeometry    `json:"geometry"`
}

// AddressProperties - every address attribute including the service area fields
type AddressProperties struct {
	domain.AddressRecord
	Distance *float64 `json:"distance,omitempty"`
}

type PointGeometry struct {
	Type        string     `json:"type"`
	GeocodeType string     `json:"geocode_type,omitempty"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ServiceAreaResponse - service area values at one point
type ServiceAreaResponse struct {
	Type           string              `json:"type"`
	AISFeatureType string              `json:"ais_feature_type"`
	Query          string              `json:"query"`
	SearchParams   SearchParams        `json:"search_params"`
	ServiceAreas   domain.ServiceAreas `json:"service_areas"`
	Covered        int                 `json:"covered"`
	Geometry       PointGeometry       `json:"geometry"`
}

// IndexStats - description of the generation in service
type IndexStats struct {
	GenerationID       string                          `json:"generation_id"`
	Version            string                          `json:"version"`
	Source             string                          `json:"source"`
	BuiltAt            time.Time                       `json:"built_at"`
	BuildDurationMS    int64                           `json:"build_duration_ms"`
	Addresses          int                             `json:"addresses"`
	Candidates         int                             `json:"candidates"`
	CandidatesByType   map[domain.GeocodeType]int      `json:"candidates_by_type"`
	GhostAddresses     int                             `json:"ghost_addresses"`
	DuplicateAddresses int                             `json:"duplicate_addresses"`
	Polygons           map[domain.ServiceAreaLayer]int `json:"polygons"`
	SkippedPolygons    int                             `json:"skipped_polygons"`
	SchemaVersion      int                             `json:"schema_version"`
	Published          int64                           `json:"published"`
	LastError          string                          `json:"last_error,omitempty"`
	LastErrorAt        *time.Time                      `json:"last_error_at,omitempty"`
}

// HealthResponse - GET /health
type HealthResponse struct {
	Status       string    `json:"status"`
	GenerationID string    `json:"generation_id,omitempty"`
	Version      string    `json:"version,omitempty"`
	Time         time.Time `json:"time"`
}

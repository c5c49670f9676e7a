// Package docs registers the OpenAPI description of the AIS address service with swag.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/reverse_geocode/{coords}": {
            "get": {
                "description": "Returns the addresses whose curb or range geocode lies within the search radius, nearest first.",
                "produces": ["application/json"],
                "tags": ["Reverse Geocode"],
                "summary": "Reverse geocode a coordinate",
                "parameters": [
                    {"type": "string", "description": "x,y as lon,lat or state plane easting,northing", "name": "coords", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 4326, "description": "Output reference, 4326 or 2272", "name": "srid", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeatureCollection"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/service_areas/{coords}": {
            "get": {
                "description": "Evaluates every service area layer at the point. A layer without a containing polygon is an empty string.",
                "produces": ["application/json"],
                "tags": ["Service Areas"],
                "summary": "Service areas at a coordinate",
                "parameters": [
                    {"type": "string", "description": "x,y as lon,lat or state plane easting,northing", "name": "coords", "in": "path", "required": true},
                    {"type": "integer", "default": 4326, "description": "Output reference, 4326 or 2272", "name": "srid", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ServiceAreaResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/account/{number}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lookup"],
                "summary": "Addresses by OPA account",
                "parameters": [
                    {"type": "string", "description": "OPA account number", "name": "number", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 4326, "name": "srid", "in": "query"},
                    {"type": "boolean", "name": "opa_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeatureCollection"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/pwd_parcel_id/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lookup"],
                "summary": "Addresses on a water department parcel",
                "parameters": [
                    {"type": "string", "description": "PWD parcel id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 4326, "name": "srid", "in": "query"},
                    {"type": "boolean", "name": "opa_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeatureCollection"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/dor_parcel_id/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lookup"],
                "summary": "Addresses on a records department parcel",
                "parameters": [
                    {"type": "string", "description": "DOR parcel id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 4326, "name": "srid", "in": "query"},
                    {"type": "boolean", "name": "opa_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeatureCollection"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/owner/{query}": {
            "get": {
                "description": "Every word of the query must appear in one of the owner names.",
                "produces": ["application/json"],
                "tags": ["Lookup"],
                "summary": "Addresses by owner name",
                "parameters": [
                    {"type": "string", "description": "Owner words", "name": "query", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 4326, "name": "srid", "in": "query"},
                    {"type": "boolean", "name": "opa_only", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FeatureCollection"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "200 once an index generation is in service, 503 before the first build succeeds.",
                "produces": ["application/json"],
                "tags": ["Index"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/index/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Index"],
                "summary": "Index statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.PointGeometry": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "Point"},
                "coordinates": {"type": "array", "items": {"type": "number"}},
                "geocode_type": {"type": "string", "example": "pwd_curb"}
            }
        },
        "dto.SearchParams": {
            "type": "object",
            "properties": {
                "srid": {"type": "integer"},
                "max_radius": {"type": "number"},
                "opa_only": {"type": "boolean"}
            }
        },
        "dto.AddressFeature": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "Feature"},
                "ais_feature_type": {"type": "string", "example": "address"},
                "match_type": {"type": "string", "example": "curb"},
                "properties": {"type": "object", "additionalProperties": true},
                "geometry": {"$ref": "#/definitions/dto.PointGeometry"}
            }
        },
        "dto.FeatureCollection": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "FeatureCollection"},
                "ais_feature_type": {"type": "string"},
                "search_type": {"type": "string"},
                "query": {"type": "string"},
                "normalized": {"type": "string"},
                "search_params": {"$ref": "#/definitions/dto.SearchParams"},
                "page": {"type": "integer"},
                "page_count": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_size": {"type": "integer"},
                "features": {"type": "array", "items": {"$ref": "#/definitions/dto.AddressFeature"}}
            }
        },
        "dto.ServiceAreaResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "Feature"},
                "ais_feature_type": {"type": "string", "example": "service_areas"},
                "query": {"type": "string"},
                "search_params": {"$ref": "#/definitions/dto.SearchParams"},
                "service_areas": {"type": "object", "additionalProperties": {"type": "string"}},
                "covered": {"type": "integer"},
                "geometry": {"$ref": "#/definitions/dto.PointGeometry"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "generation_id": {"type": "string"},
                "version": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INVALID_COORDINATES"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "integer", "example": 400},
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"type": "object", "additionalProperties": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "AIS Address Service API",
	Description:      "Reverse geocoding and service area lookup over the address information system snapshot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ais-service/internal/delivery/http/handler"
	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/usecase/dto"
)

type MockReverseGeocoder struct {
	mock.Mock
}

func (m *MockReverseGeocoder) ReverseGeocode(ctx context.Context, req dto.ReverseGeocodeRequest) (*dto.FeatureCollection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeatureCollection), args.Error(1)
}

type MockServiceAreaResolver struct {
	mock.Mock
}

func (m *MockServiceAreaResolver) ServiceAreas(ctx context.Context, req dto.ServiceAreaRequest) (*dto.ServiceAreaResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ServiceAreaResponse), args.Error(1)
}

type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Lookup(ctx context.Context, req dto.LookupRequest) (*dto.FeatureCollection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeatureCollection), args.Error(1)
}

type MockIndexInspector struct {
	mock.Mock
}

func (m *MockIndexInspector) Stats(ctx context.Context) (*dto.IndexStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IndexStats), args.Error(1)
}

func (m *MockIndexInspector) Health(ctx context.Context) (*dto.HealthResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(*dto.HealthResponse), args.Error(1)
}

func doGet(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "error envelope expected: %v", body)
	return e["code"].(string)
}

func emptyCollection(query string) *dto.FeatureCollection {
	return &dto.FeatureCollection{
		Type:           dto.TypeFeatureCollection,
		AISFeatureType: dto.FeatureTypeAddress,
		Query:          query,
		Page:           1,
		Features:       []dto.AddressFeature{},
	}
}

func TestReverseGeocodeHandler(t *testing.T) {
	uc := &MockReverseGeocoder{}
	app := fiber.New()
	app.Get("/reverse_geocode/:coords", handler.NewReverseGeocodeHandler(uc, zap.NewNop()).ReverseGeocode)

	t.Run("parses coordinates and query parameters", func(t *testing.T) {
		want := dto.ReverseGeocodeRequest{Query: "-75.1627,39.9522", X: -75.1627, Y: 39.9522, Page: 2, SRID: 2272}
		uc.On("ReverseGeocode", mock.Anything, want).Return(emptyCollection(want.Query), nil).Once()

		status, body := doGet(t, app, "/reverse_geocode/-75.1627,39.9522?page=2&srid=2272")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "FeatureCollection", body["type"])
		assert.Equal(t, []interface{}{}, body["features"])
	})

	t.Run("escaped comma and defaults", func(t *testing.T) {
		want := dto.ReverseGeocodeRequest{Query: "2694253.79,235887.92", X: 2694253.79, Y: 235887.92, Page: 1, SRID: 4326}
		uc.On("ReverseGeocode", mock.Anything, want).Return(emptyCollection(want.Query), nil).Once()

		status, _ := doGet(t, app, "/reverse_geocode/2694253.79%2C235887.92")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		for _, coords := range []string{"abc", "1,2,3", "-75.1,north"} {
			status, body := doGet(t, app, "/reverse_geocode/"+coords)
			assert.Equal(t, http.StatusBadRequest, status, coords)
			assert.Equal(t, "INVALID_COORDINATES", errorCode(t, body))
		}
	})

	t.Run("malformed page", func(t *testing.T) {
		status, body := doGet(t, app, "/reverse_geocode/-75.1,39.9?page=two")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PAGE", errorCode(t, body))
	})

	t.Run("domain errors map to status codes", func(t *testing.T) {
		uc.On("ReverseGeocode", mock.Anything, mock.MatchedBy(func(r dto.ReverseGeocodeRequest) bool { return r.X == 10 })).
			Return(nil, domain.ErrInvalidCoordinate).Once()
		uc.On("ReverseGeocode", mock.Anything, mock.MatchedBy(func(r dto.ReverseGeocodeRequest) bool { return r.X == 11 })).
			Return(nil, domain.ErrIndexUnavailable).Once()
		uc.On("ReverseGeocode", mock.Anything, mock.MatchedBy(func(r dto.ReverseGeocodeRequest) bool { return r.X == 12 })).
			Return(nil, domain.ErrInvalidPage).Once()

		status, body := doGet(t, app, "/reverse_geocode/10,10")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_COORDINATES", errorCode(t, body))
		assert.EqualValues(t, http.StatusBadRequest, body["status"])

		status, body = doGet(t, app, "/reverse_geocode/11,10")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "INDEX_UNAVAILABLE", errorCode(t, body))

		status, body = doGet(t, app, "/reverse_geocode/12,10?page=9")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PAGE", errorCode(t, body))
	})

	uc.AssertExpectations(t)
}

func TestServiceAreaHandler(t *testing.T) {
	uc := &MockServiceAreaResolver{}
	app := fiber.New()
	app.Get("/service_areas/:coords", handler.NewServiceAreaHandler(uc, zap.NewNop()).ServiceAreas)

	want := dto.ServiceAreaRequest{Query: "-75.1627,39.9522", X: -75.1627, Y: 39.9522, SRID: 4326}
	resp := &dto.ServiceAreaResponse{
		Type:           dto.TypeFeature,
		AISFeatureType: dto.FeatureTypeServiceAreas,
		Query:          want.Query,
		ServiceAreas:   domain.ServiceAreas{PoliticalWard: "08"},
		Covered:        1,
	}
	uc.On("ServiceAreas", mock.Anything, want).Return(resp, nil).Once()

	status, body := doGet(t, app, "/service_areas/-75.1627,39.9522")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "service_areas", body["ais_feature_type"])
	areas := body["service_areas"].(map[string]interface{})
	assert.Equal(t, "08", areas["political_ward"])
	assert.Contains(t, areas, "zoning")

	status, body = doGet(t, app, "/service_areas/nowhere")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATES", errorCode(t, body))

	uc.AssertExpectations(t)
}

func TestLookupHandler(t *testing.T) {
	uc := &MockAddressLookup{}
	h := handler.NewLookupHandler(uc, zap.NewNop())
	app := fiber.New()
	app.Get("/account/:number", h.Account)
	app.Get("/pwd_parcel_id/:id", h.PWDParcel)
	app.Get("/dor_parcel_id/:id", h.DORParcel)
	app.Get("/owner/:query", h.Owner)

	cases := []struct {
		target string
		want   dto.LookupRequest
	}{
		{"/account/883309050", dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309050", Page: 1, SRID: 4326}},
		{"/pwd_parcel_id/542330?opa_only=true", dto.LookupRequest{Kind: dto.LookupPWDParcel, Query: "542330", Page: 1, SRID: 4326, OPAOnly: true}},
		{"/account/883309051?opa_only", dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309051", Page: 1, SRID: 4326, OPAOnly: true}},
		{"/account/883309052?opa_only=&page=2", dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309052", Page: 2, SRID: 4326, OPAOnly: true}},
		{"/account/883309053?opa_only=false", dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309053", Page: 1, SRID: 4326}},
		{"/dor_parcel_id/001S07-0006?srid=2272", dto.LookupRequest{Kind: dto.LookupDORParcel, Query: "001S07-0006", Page: 1, SRID: 2272}},
		{"/owner/CITY%20OF%20PHILA?page=3", dto.LookupRequest{Kind: dto.LookupOwner, Query: "CITY OF PHILA", Page: 3, SRID: 4326}},
	}
	for _, tc := range cases {
		uc.On("Lookup", mock.Anything, tc.want).Return(emptyCollection(tc.want.Query), nil).Once()
		status, body := doGet(t, app, tc.target)
		assert.Equal(t, http.StatusOK, status, tc.target)
		assert.Equal(t, tc.want.Query, body["query"])
	}

	uc.On("Lookup", mock.Anything, mock.MatchedBy(func(r dto.LookupRequest) bool { return r.Query == "missing" })).
		Return(nil, domain.ErrNotFound).Once()
	status, body := doGet(t, app, "/account/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	uc.AssertExpectations(t)
}

func TestIndexHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		uc := &MockIndexInspector{}
		uc.On("Health", mock.Anything).Return(&dto.HealthResponse{Status: "healthy", GenerationID: "g1", Time: time.Now()}, nil)
		uc.On("Stats", mock.Anything).Return(&dto.IndexStats{GenerationID: "g1", Addresses: 3}, nil)

		h := handler.NewIndexHandler(uc, zap.NewNop())
		app := fiber.New()
		app.Get("/health", h.Health)
		app.Get("/index/stats", h.Stats)

		status, body := doGet(t, app, "/health")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])

		status, body = doGet(t, app, "/index/stats")
		assert.Equal(t, http.StatusOK, status)
		data := body["data"].(map[string]interface{})
		assert.EqualValues(t, 3, data["addresses"])
		assert.Equal(t, "g1", body["meta"].(map[string]interface{})["generation"])
	})

	t.Run("unavailable", func(t *testing.T) {
		uc := &MockIndexInspector{}
		uc.On("Health", mock.Anything).Return(&dto.HealthResponse{Status: "unavailable", Time: time.Now()}, domain.ErrIndexUnavailable)
		uc.On("Stats", mock.Anything).Return(nil, domain.ErrIndexUnavailable)

		h := handler.NewIndexHandler(uc, zap.NewNop())
		app := fiber.New()
		app.Get("/health", h.Health)
		app.Get("/index/stats", h.Stats)

		status, body := doGet(t, app, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unavailable", body["status"])

		status, body = doGet(t, app, "/index/stats")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "INDEX_UNAVAILABLE", errorCode(t, body))
	})
}

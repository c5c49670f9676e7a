package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	apperrors "github.com/ais-service/internal/pkg/errors"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase"
	"github.com/ais-service/internal/usecase/dto"
)

func TestLookupUseCase_Finders(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLookupUseCase(publishedStore(t, testDataset()), zap.NewNop(), 100)

	t.Run("by account", func(t *testing.T) {
		found, err := uc.ByAccount(ctx, "883309050", false)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "1400 JOHN F KENNEDY BLVD", found[0].StreetAddress)

		_, err = uc.ByAccount(ctx, "000000000", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("by pwd parcel in address order", func(t *testing.T) {
		found, err := uc.ByPWDParcel(ctx, "542372", false)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "1400 JOHN F KENNEDY BLVD", found[0].StreetAddress)
		assert.Equal(t, "1 S PENN SQ", found[1].StreetAddress)
	})

	t.Run("opa only drops addresses without an account", func(t *testing.T) {
		found, err := uc.ByPWDParcel(ctx, "542372", true)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.True(t, found[0].HasOPAAccount())
	})

	t.Run("by dor parcel", func(t *testing.T) {
		found, err := uc.ByDORParcel(ctx, " 001S070144 ", false)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("by owner", func(t *testing.T) {
		found, err := uc.ByOwner(ctx, "phila city", false)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "883309050", found[0].OPAAccountNum)

		_, err = uc.ByOwner(ctx, "  ", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLookupUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLookupUseCase(publishedStore(t, testDataset()), zap.NewNop(), 1)

	t.Run("renders the preferred geocode", func(t *testing.T) {
		resp, err := uc.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309050", SRID: 2272})
		require.NoError(t, err)
		assert.Equal(t, dto.SearchTypeAccount, resp.SearchType)
		require.Len(t, resp.Features, 1)

		f := resp.Features[0]
		assert.Empty(t, f.MatchType)
		assert.Nil(t, f.Properties.Distance)
		require.NotNil(t, f.Geometry)
		assert.Equal(t, "pwd_curb", f.Geometry.GeocodeType)
	})

	t.Run("pages over parcel addresses", func(t *testing.T) {
		resp, err := uc.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupPWDParcel, Query: "542372", Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.PageCount)
		require.Len(t, resp.Features, 1)
		assert.Equal(t, "1 S PENN SQ", resp.Features[0].Properties.StreetAddress)

		_, err = uc.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupPWDParcel, Query: "542372", Page: 3})
		assert.ErrorIs(t, err, domain.ErrInvalidPage)
	})

	t.Run("owner query is normalized", func(t *testing.T) {
		resp, err := uc.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupOwner, Query: "penn center"})
		require.NoError(t, err)
		assert.Equal(t, "PENN CENTER", resp.Normalized)
		assert.Equal(t, 1, resp.TotalSize)
	})

	t.Run("no result is a 404", func(t *testing.T) {
		_, err := uc.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupDORParcel, Query: "nope"})
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
		assert.Equal(t, "nope", appErr.Details["query"])
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := uc.Lookup(ctx, dto.LookupRequest{Kind: "street", Query: "x"})
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeInvalidRequest, appErr.Code)
	})

	t.Run("index unavailable", func(t *testing.T) {
		empty := usecase.NewLookupUseCase(spatial.NewGenerationStore(), zap.NewNop(), 1)
		_, err := empty.Lookup(ctx, dto.LookupRequest{Kind: dto.LookupAccount, Query: "883309050"})
		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})
}

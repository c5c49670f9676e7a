package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/pkg/errors"
	"github.com/ais-service/internal/pkg/validator"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase/dto"
)

// LookupUseCase - addresses by linked identifiers
type LookupUseCase struct {
	generations IndexReader
	logger      *zap.Logger
	pageSize    int
}

func NewLookupUseCase(generations IndexReader, logger *zap.Logger, pageSize int) *LookupUseCase {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &LookupUseCase{
		generations: generations,
		logger:      logger,
		pageSize:    pageSize,
	}
}

// ByAccount - addresses linked to an OPA account number
func (uc *LookupUseCase) ByAccount(ctx context.Context, number string, opaOnly bool) ([]*domain.AddressRecord, error) {
	return uc.find(func(idx *spatial.Index) []*domain.AddressRecord {
		return idx.FindByAccount(strings.TrimSpace(number))
	}, opaOnly)
}

// ByPWDParcel - addresses on a water department parcel
func (uc *LookupUseCase) ByPWDParcel(ctx context.Context, id string, opaOnly bool) ([]*domain.AddressRecord, error) {
	return uc.find(func(idx *spatial.Index) []*domain.AddressRecord {
		return idx.FindByPWDParcel(strings.TrimSpace(id))
	}, opaOnly)
}

// ByDORParcel - addresses on a records department parcel
func (uc *LookupUseCase) ByDORParcel(ctx context.Context, id string, opaOnly bool) ([]*domain.AddressRecord, error) {
	return uc.find(func(idx *spatial.Index) []*domain.AddressRecord {
		return idx.FindByDORParcel(strings.TrimSpace(id))
	}, opaOnly)
}

// ByOwner - addresses where every word of query appears in some owner name
func (uc *LookupUseCase) ByOwner(ctx context.Context, query string, opaOnly bool) ([]*domain.AddressRecord, error) {
	parts := OwnerParts(query)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty owner query", domain.ErrNotFound)
	}
	return uc.find(func(idx *spatial.Index) []*domain.AddressRecord {
		return idx.FindByOwner(parts)
	}, opaOnly)
}

// OwnerParts splits an owner query into upper-cased words
func OwnerParts(query string) []string {
	return strings.Fields(strings.ToUpper(strings.Trim(query, "/ ")))
}

func (uc *LookupUseCase) find(lookup func(*spatial.Index) []*domain.AddressRecord, opaOnly bool) ([]*domain.AddressRecord, error) {
	gen, err := uc.generations.Current()
	if err != nil {
		return nil, err
	}

	found := lookup(gen.Index)
	if opaOnly {
		filtered := make([]*domain.AddressRecord, 0, len(found))
		for _, rec := range found {
			if rec.HasOPAAccount() {
				filtered = append(filtered, rec)
			}
		}
		found = filtered
	}
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// Lookup dispatches a request by kind and renders the page as a feature collection
func (uc *LookupUseCase) Lookup(ctx context.Context, req dto.LookupRequest) (*dto.FeatureCollection, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.SRID == 0 {
		req.SRID = int(domain.SRIDWGS84)
	}
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidPage)
	}
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	var (
		found      []*domain.AddressRecord
		searchType string
		normalized string
		err        error
	)
	switch req.Kind {
	case dto.LookupAccount:
		found, err = uc.ByAccount(ctx, req.Query, req.OPAOnly)
		searchType = dto.SearchTypeAccount
	case dto.LookupPWDParcel:
		found, err = uc.ByPWDParcel(ctx, req.Query, req.OPAOnly)
		searchType = dto.SearchTypePWDParcel
	case dto.LookupDORParcel:
		found, err = uc.ByDORParcel(ctx, req.Query, req.OPAOnly)
		searchType = dto.SearchTypeDORParcel
	case dto.LookupOwner:
		found, err = uc.ByOwner(ctx, req.Query, req.OPAOnly)
		searchType = dto.SearchTypeOwner
		normalized = strings.Join(OwnerParts(req.Query), " ")
	default:
		return nil, errors.ErrInvalidRequest
	}
	if err != nil {
		if stderrors.Is(err, domain.ErrNotFound) {
			return nil, errors.ErrNotFound.WithDetails(map[string]interface{}{"query": req.Query})
		}
		return nil, err
	}

	w, err := paginate(len(found), uc.pageSize, req.Page)
	if err != nil {
		return nil, err
	}

	srid := outputSRID(req.SRID)
	resp := &dto.FeatureCollection{
		Type:           dto.TypeFeatureCollection,
		AISFeatureType: dto.FeatureTypeAddress,
		SearchType:     searchType,
		Query:          req.Query,
		Normalized:     normalized,
		SearchParams:   dto.SearchParams{SRID: req.SRID, OPAOnly: req.OPAOnly},
		Page:           w.Page,
		PageCount:      w.PageCount,
		PageSize:       w.PageSize,
		TotalSize:      w.TotalSize,
		Features:       make([]dto.AddressFeature, 0, w.End-w.Start),
	}
	for _, rec := range found[w.Start:w.End] {
		f, err := addressFeature(rec, preferredGeocode(rec), "", nil, srid)
		if err != nil {
			return nil, err
		}
		resp.Features = append(resp.Features, f)
	}

	uc.logger.Debug("Identifier lookup",
		zap.String("kind", string(req.Kind)),
		zap.String("query", req.Query),
		zap.Int("total", w.TotalSize))
	return resp, nil
}

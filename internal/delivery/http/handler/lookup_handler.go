package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ais-service/internal/pkg/utils"
	"github.com/ais-service/internal/usecase/dto"
)

// AddressLookup is satisfied by usecase.LookupUseCase
type AddressLookup interface {
	Lookup(ctx context.Context, req dto.LookupRequest) (*dto.FeatureCollection, error)
}

// LookupHandler - addresses by account, parcel or owner
type LookupHandler struct {
	lookupUC AddressLookup
	logger   *zap.Logger
}

func NewLookupHandler(lookupUC AddressLookup, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupUC: lookupUC,
		logger:   logger,
	}
}

// Account godoc
// @Summary Addresses by OPA account
// @Tags Lookup
// @Produce json
// @Param number path string true "OPA account number"
// @Param page query int false "Page number" default(1)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Param opa_only query bool false "Only addresses with an OPA account"
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /account/{number} [get]
func (h *LookupHandler) Account(c *fiber.Ctx) error {
	return h.lookup(c, dto.LookupAccount, "number")
}

// PWDParcel godoc
// @Summary Addresses on a water department parcel
// @Tags Lookup
// @Produce json
// @Param id path string true "PWD parcel id"
// @Param page query int false "Page number" default(1)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Param opa_only query bool false "Only addresses with an OPA account"
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /pwd_parcel_id/{id} [get]
func (h *LookupHandler) PWDParcel(c *fiber.Ctx) error {
	return h.lookup(c, dto.LookupPWDParcel, "id")
}

// DORParcel godoc
// @Summary Addresses on a records department parcel
// @Tags Lookup
// @Produce json
// @Param id path string true "DOR parcel id"
// @Param page query int false "Page number" default(1)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Param opa_only query bool false "Only addresses with an OPA account"
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /dor_parcel_id/{id} [get]
func (h *LookupHandler) DORParcel(c *fiber.Ctx) error {
	return h.lookup(c, dto.LookupDORParcel, "id")
}

// Owner godoc
// @Summary Addresses by owner name
// @Description Every word of the query must appear in one of the owner names.
// @Tags Lookup
// @Produce json
// @Param query path string true "Owner words"
// @Param page query int false "Page number" default(1)
// @Param srid query int false "Output reference, 4326 or 2272" default(4326)
// @Param opa_only query bool false "Only addresses with an OPA account"
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /owner/{query} [get]
func (h *LookupHandler) Owner(c *fiber.Ctx) error {
	return h.lookup(c, dto.LookupOwner, "query")
}

func (h *LookupHandler) lookup(c *fiber.Ctx, kind dto.LookupKind, param string) error {
	req := dto.LookupRequest{
		Kind:    kind,
		Query:   pathValue(c, param),
		OPAOnly: queryFlag(c, "opa_only"),
	}
	var err error
	if req.Page, err = queryPage(c); err != nil {
		return utils.SendError(c, err)
	}
	if req.SRID, err = queryInt(c, "srid", 4326); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.lookupUC.Lookup(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, result)
}

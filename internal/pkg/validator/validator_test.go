package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ais-service/internal/pkg/validator"
	"github.com/ais-service/internal/usecase/dto"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, validator.Validate(dto.ReverseGeocodeRequest{Page: 1, SRID: 4326}))
	assert.NoError(t, validator.Validate(dto.ServiceAreaRequest{SRID: 2272}))

	err := validator.Validate(dto.ReverseGeocodeRequest{Page: 0, SRID: 3857})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "SRID must be srid (got 3857)")
		assert.Contains(t, err.Error(), "Page must be min=1 (got 0)")
	}

	err = validator.Validate(dto.LookupRequest{Kind: dto.LookupOwner, Page: 1, SRID: 4326})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Query must be required")
	}
}

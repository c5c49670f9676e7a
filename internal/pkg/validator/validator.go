package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ais-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// srid - an output reference the service can render
	_ = validate.RegisterValidation("srid", func(fl validator.FieldLevel) bool {
		switch domain.SRID(fl.Field().Int()) {
		case domain.SRIDWGS84, domain.SRIDStatePlane:
			return true
		}
		return false
	})
}

// Validate checks `validate` tags. Field errors are flattened into one message such as
// "SRID must be srid (got 3857); Page must be min=1 (got 0)".
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s must be %s (got %v)", fe.Field(), rule, fe.Value()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

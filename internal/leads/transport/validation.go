package transport

import (
	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations installs the lead-specific validation tags.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterValidation("pipelinestage", func(fl playground.FieldLevel) bool {
		_, ok := domain.NormalizeStage(fl.Field().String())
		return ok
	})
}

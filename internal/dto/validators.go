package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// RegisterValidations installs custom binding rules on gin's validator engine.
// Call once at startup before serving requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("taxyear", validTaxYear)
}

// validTaxYear accepts "2024-25" or a bare start year like "2024".
func validTaxYear(fl validator.FieldLevel) bool {
	_, err := domain.ParseTaxYear(fl.Field().String())
	return err == nil
}

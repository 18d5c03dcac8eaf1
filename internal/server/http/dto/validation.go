package dto

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateYearMonth accepts "YYYY-MM" period keys.
func validateYearMonth(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse("2006-01", value)
	return err == nil
}

// RegisterValidators installs custom binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("yearmonth", validateYearMonth); err != nil {
		return fmt.Errorf("validator registration: %w", err)
	}
	return nil
}

// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"propval/internal/valuation"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("property_type", validatePropertyType)
		_ = v.RegisterValidation("decoration_level", validateDecorationLevel)
		_ = v.RegisterValidation("valuation_algorithm", validateAlgorithm)
	}
}

func validatePropertyType(fl validator.FieldLevel) bool {
	return valuation.PropertyType(fl.Field().String()).Valid()
}

func validateDecorationLevel(fl validator.FieldLevel) bool {
	return valuation.DecorationLevel(fl.Field().String()).Valid()
}

func validateAlgorithm(fl validator.FieldLevel) bool {
	_, ok := valuation.ParseMethod(fl.Field().String())
	return ok
}

package models

import "github.com/go-playground/validator/v10"

// NewValidator returns a validator that also knows the model-specific tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsValidCategory(Category(fl.Field().String()))
	})
	return v
}

package apperrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FromValidation turns validator field errors into a Validation error. Any
// other error is returned as InvalidInput.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return InvalidInput(err.Error())
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return Validation(fields)
}

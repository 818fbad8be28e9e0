// Package validation adapts go-playground/validator to Echo's Validator
// interface so request DTOs can declare their constraints as struct tags.
package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a single validator.Validate instance; the instance caches
// struct metadata and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator ready to be assigned to echo.Echo.Validator.
func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. The returned error carries the field
// and tag that failed; handlers surface it as the details of a 400 response.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

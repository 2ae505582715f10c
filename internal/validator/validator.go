// Package validator accumulates field-level validation failures so a
// request can report every bad field at once instead of failing on the
// first one.
package validator

import (
	"regexp"

	"libraryapi/internal/apperr"
)

// EmailRX is a compiled regular expression for basic email validation.
var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validator collects field errors in the order they were added. The first
// failure recorded for a field wins.
type Validator struct {
	fields []apperr.FieldError
	seen   map[string]bool
}

func New() *Validator {
	return &Validator{seen: make(map[string]bool)}
}

func (v *Validator) Valid() bool {
	return len(v.fields) == 0
}

func (v *Validator) AddError(field, message string) {
	if v.seen[field] {
		return
	}
	v.seen[field] = true
	v.fields = append(v.fields, apperr.FieldError{Field: field, Message: message})
}

// Check adds an error for field with message only when ok is false.
//
//	v.Check(title != "", "book_title", "must be provided")
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Errors returns the accumulated field errors.
func (v *Validator) Errors() []apperr.FieldError {
	return v.fields
}

// Err converts the accumulated failures into a validation error, or nil
// when everything checked out.
func (v *Validator) Err(message string) error {
	if v.Valid() {
		return nil
	}
	return apperr.Validation(message, v.fields...)
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

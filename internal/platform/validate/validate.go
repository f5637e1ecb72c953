// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field errors for movie and account input and turns
// them into a single VALIDATION_ERROR.
//
// Rules are chained and each field reports at most its first failure, so
// `Required(...).Email(...)` on an empty email yields one detail, not two.
package validate

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/cinelist/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// canonicalUUIDLength is the length of the 8-4-4-4-12 form. Braced and URN forms
// are rejected so an ID always matches its stored text.
const canonicalUUIDLength = 36

// Validator accumulates field errors. Use a fresh value per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", "This field is required")
}

// MaxLen fails if value holds more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen fails if value holds fewer than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) >= min, fmt.Sprintf("Minimum %d characters", min))
}

// Range fails if value is outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(field, value >= min && value <= max, fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email fails unless value is a bare RFC 5322 address ("Jane <jane@x.io>" is rejected).
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err == nil && address.Address == value, "Must be a valid email address")
}

// UUID fails unless value is a canonical UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	_, err := uuid.Parse(value)
	return v.check(field, err == nil && len(value) == canonicalUUIDLength, "Must be a valid UUID")
}

// Err returns the collected failures as a VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, ok bool, message string) *Validator {
	if ok || v.failed(field) {
		return v
	}
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}

func (v *Validator) failed(field string) bool {
	return slices.ContainsFunc(v.errs, func(e apperr.FieldError) bool { return e.Field == field })
}

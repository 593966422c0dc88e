package vix

import (
	"strings"

	"golang.org/x/text/language"
)

// StringValidator validates a string field.
type StringValidator struct {
	BaseValidator
	value string
}

// String starts validating value as fieldName.
func String(value string, fieldName string) *StringValidator {
	return &StringValidator{
		BaseValidator: newBaseValidator(value, fieldName),
		value:         value,
	}
}

// Required rejects empty and whitespace-only values.
func (sv *StringValidator) Required() *StringValidator {
	if strings.TrimSpace(sv.value) == "" {
		sv.fail("validation.required", nil)
	}
	return sv
}

// LanguageTag rejects values that are not BCP 47 language tags. Empty
// values pass; combine with Required to reject them.
func (sv *StringValidator) LanguageTag() *StringValidator {
	if sv.value == "" {
		return sv
	}
	if _, err := language.Parse(sv.value); err != nil {
		sv.fail("validation.language", map[string]interface{}{"value": sv.value})
	}
	return sv
}

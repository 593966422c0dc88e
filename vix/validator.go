// Package vix validates request fields with a fluent API and reports
// failures as erm errors of kind InvalidRequest, keyed by field name.
//
//	err := vix.V().
//		Is(vix.String(req.Base, "base").LanguageTag()).
//		Is(vix.Numeric(len(req.Files), "files").Min(1)).
//		Error()
package vix

import (
	"github.com/c3p0-box/msgcheck/erm"
)

// Validator is implemented by every field validator.
type Validator interface {
	Result() *ValidationResult
}

// ValidationResult collects the failures of one field.
type ValidationResult struct {
	Value     interface{}
	FieldName string
	errors    []erm.Error
}

// NewValidationResult creates an empty result for fieldName.
func NewValidationResult(value interface{}, fieldName string) *ValidationResult {
	if fieldName == "" {
		fieldName = "value"
	}
	return &ValidationResult{Value: value, FieldName: fieldName}
}

// AddError records a failure. Plain errors become InvalidRequest errors.
func (vr *ValidationResult) AddError(err error) *ValidationResult {
	if err == nil {
		return vr
	}
	e, ok := err.(erm.Error)
	if !ok {
		e = erm.InvalidRequestError(err.Error(), err)
	}
	vr.errors = append(vr.errors, e.WithSubject(vr.FieldName))
	return vr
}

// Valid reports whether no failure was recorded.
func (vr *ValidationResult) Valid() bool {
	return len(vr.errors) == 0
}

// AllErrors returns the recorded failures.
func (vr *ValidationResult) AllErrors() []erm.Error {
	return vr.errors
}

// Error returns the failures collected in one InvalidRequest container, or
// nil when the field is valid.
func (vr *ValidationResult) Error() erm.Error {
	if vr.Valid() {
		return nil
	}
	container := erm.New(erm.InvalidRequest, "", nil)
	container.AddErrors(vr.errors)
	return container
}

// =============================================================================
// Base Functionality
// =============================================================================

// BaseValidator holds what every field validator shares: the result and the
// conditions under which rules apply.
type BaseValidator struct {
	result     *ValidationResult
	conditions []func() bool
}

func newBaseValidator(value interface{}, fieldName string) BaseValidator {
	return BaseValidator{result: NewValidationResult(value, fieldName)}
}

func (bv *BaseValidator) when(condition func() bool) {
	bv.conditions = append(bv.conditions, condition)
}

func (bv *BaseValidator) shouldValidate() bool {
	for _, condition := range bv.conditions {
		if !condition() {
			return false
		}
	}
	return true
}

// fail records a failure with messageKey unless a condition disables the
// validator.
func (bv *BaseValidator) fail(messageKey string, params map[string]interface{}) {
	if !bv.shouldValidate() {
		return
	}
	err := erm.New(erm.InvalidRequest, "", nil).
		WithMessageKey(messageKey).
		WithParam("field", bv.result.FieldName)
	for k, v := range params {
		err = err.WithParam(k, v)
	}
	bv.result.AddError(err)
}

// Result returns the field's validation result.
func (bv *BaseValidator) Result() *ValidationResult {
	return bv.result
}

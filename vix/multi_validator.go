package vix

import (
	"fmt"

	"github.com/c3p0-box/msgcheck/erm"
)

// ValidationOrchestrator collects the results of several field validators.
type ValidationOrchestrator struct {
	results []*ValidationResult
}

// V creates an empty orchestrator.
func V() *ValidationOrchestrator {
	return &ValidationOrchestrator{}
}

// Is adds validators.
func (vo *ValidationOrchestrator) Is(validators ...Validator) *ValidationOrchestrator {
	for _, v := range validators {
		vo.results = append(vo.results, v.Result())
	}
	return vo
}

// InRow adds the validators of a list element, prefixing their field names
// as "namespace[index].field".
func (vo *ValidationOrchestrator) InRow(namespace string, index int, validators ...Validator) *ValidationOrchestrator {
	for _, v := range validators {
		r := v.Result()
		prefixed := NewValidationResult(r.Value, fmt.Sprintf("%s[%d].%s", namespace, index, r.FieldName))
		for _, err := range r.AllErrors() {
			prefixed.AddError(err)
		}
		vo.results = append(vo.results, prefixed)
	}
	return vo
}

// Valid reports whether every field passed.
func (vo *ValidationOrchestrator) Valid() bool {
	for _, r := range vo.results {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// Error returns every failure in one InvalidRequest container, or nil.
func (vo *ValidationOrchestrator) Error() erm.Error {
	if vo.Valid() {
		return nil
	}
	container := erm.New(erm.InvalidRequest, "", nil)
	for _, r := range vo.results {
		container.AddErrors(r.AllErrors())
	}
	return container
}

// ErrMap returns failures by field name in the default language.
func (vo *ValidationOrchestrator) ErrMap() map[string][]string {
	if err := vo.Error(); err != nil {
		return err.ErrMap()
	}
	return nil
}

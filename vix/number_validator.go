package vix

import "cmp"

// NumberValidator validates an ordered numeric field.
type NumberValidator[T cmp.Ordered] struct {
	BaseValidator
	value T
}

// Numeric starts validating value as fieldName.
func Numeric[T cmp.Ordered](value T, fieldName string) *NumberValidator[T] {
	return &NumberValidator[T]{
		BaseValidator: newBaseValidator(value, fieldName),
		value:         value,
	}
}

// When applies the following rules only while condition holds.
func (nv *NumberValidator[T]) When(condition func() bool) *NumberValidator[T] {
	nv.when(condition)
	return nv
}

// Min rejects values below min.
func (nv *NumberValidator[T]) Min(min T) *NumberValidator[T] {
	if nv.value < min {
		nv.fail("validation.min", map[string]interface{}{"min": min})
	}
	return nv
}

// Max rejects values above max.
func (nv *NumberValidator[T]) Max(max T) *NumberValidator[T] {
	if nv.value > max {
		nv.fail("validation.max", map[string]interface{}{"max": max})
	}
	return nv
}

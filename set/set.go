// Package set provides a small generic set used for bookkeeping while
// scanning templates: duplicate flag detection, seen argument slots and
// message identifiers.
package set

import (
	"cmp"
	"slices"
)

type Void struct{}

// Set is a generic set type that can hold any comparable type
type Set[T comparable] map[T]Void

// New creates a new empty set
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// Of creates a set holding the given items
func Of[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = Void{}
	}
	return s
}

// Add adds an item to the set
func (s Set[T]) Add(item T) {
	s[item] = Void{}
}

// Insert adds an item and reports whether it was not already present.
func (s Set[T]) Insert(item T) bool {
	if _, exists := s[item]; exists {
		return false
	}
	s[item] = Void{}
	return true
}

// Contains checks if an item exists in the set
func (s Set[T]) Contains(item T) bool {
	_, exists := s[item]
	return exists
}

// Remove removes an item from the set
func (s Set[T]) Remove(item T) {
	delete(s, item)
}

// Size returns the number of items in the set
func (s Set[T]) Size() int {
	return len(s)
}

// IsEmpty returns true if the set is empty
func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

// Difference returns the items of s that are not in other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	out := New[T]()
	for item := range s {
		if !other.Contains(item) {
			out[item] = Void{}
		}
	}
	return out
}

// Sorted returns the items of the set in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	items := make([]T, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

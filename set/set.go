// Package set provides a minimal generic set.
package set

import (
	"cmp"
	"slices"
)

// Set represents a generic set data structure
type Set[T comparable] map[T]struct{}

// New creates a new empty set
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// NewWithValues creates a new set with the given values
func NewWithValues[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add adds a value to the set, and reports whether it was absent.
func (s Set[T]) Add(value T) bool {
	if s.Contains(value) {
		return false
	}
	s[value] = struct{}{}
	return true
}

// Contains checks if a value exists in the set
func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

// Sorted returns the values of an ordered set as a sorted slice.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	result := make([]T, 0, len(s))
	for value := range s {
		result = append(result, value)
	}
	slices.Sort(result)
	return result
}

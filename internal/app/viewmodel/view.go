package viewmodel

import (
	"iter"
	"strings"
)

// Field extracts one searchable text field from an item
type Field[T any] func(T) string

// View is a filtered, ordered, read-only sequence over a snapshot. It is
// evaluated on iteration and allocates nothing until Items is called.
type View[T any] struct {
	items  []T
	query  string
	fields []Field[T]
}

func newView[T any](items []T, query string, fields []Field[T]) View[T] {
	return View[T]{items: items, query: strings.ToLower(query), fields: fields}
}

// Matches reports whether any of item's fields contains query, ignoring
// case. An empty query matches everything.
func Matches[T any](item T, query string, fields ...Field[T]) bool {
	return matchLower(item, strings.ToLower(query), fields)
}

func matchLower[T any](item T, lowered string, fields []Field[T]) bool {
	if lowered == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(item)), lowered) {
			return true
		}
	}
	return false
}

// All yields the matching items in snapshot order
func (v View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.items {
			if !matchLower(item, v.query, v.fields) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Items collects the matching items into a new slice
func (v View[T]) Items() []T {
	out := make([]T, 0, len(v.items))
	for item := range v.All() {
		out = append(out, item)
	}
	return out
}

// Len counts the matching items
func (v View[T]) Len() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}

// Total is the size of the underlying snapshot
func (v View[T]) Total() int {
	return len(v.items)
}

// Package ident allocates stable non-negative 64-bit identifiers
// within a namespace. Module and cable identifiers live in independent
// Registry instances.
package ident

import "errors"

// Auto requests automatic assignment.
const Auto int64 = -1

// ErrTaken is returned when a requested identifier is already live.
var ErrTaken = errors.New("identifier taken")

// ErrNegative is returned when a requested identifier is invalid.
var ErrNegative = errors.New("negative identifier")

// Registry tracks live identifiers of one namespace. Automatic
// assignment uses a monotonic counter, so an identifier is never reused
// while live and auto-assigned identifiers never collide with released
// ones. The zero value is ready to use.
type Registry struct {
	used map[int64]struct{}
	next int64
}

// Allocate reserves an identifier. Pass Auto to have the lowest unused
// counter value assigned; a concrete identifier is reserved verbatim
// and fails with ErrTaken if live.
func (r *Registry) Allocate(requested int64) (int64, error) {
	if r.used == nil {
		r.used = make(map[int64]struct{})
	}
	if requested == Auto {
		id := r.next
		r.next++
		r.used[id] = struct{}{}
		return id, nil
	}
	if requested < 0 {
		return 0, ErrNegative
	}
	if _, ok := r.used[requested]; ok {
		return 0, ErrTaken
	}
	r.used[requested] = struct{}{}
	// keep the counter ahead of explicitly reserved identifiers
	if requested >= r.next {
		r.next = requested + 1
	}
	return requested, nil
}

// Release returns an identifier to the free pool. Releasing an unknown
// identifier is a no-op.
func (r *Registry) Release(id int64) {
	delete(r.used, id)
}

// Len returns the number of live identifiers.
func (r *Registry) Len() int {
	return len(r.used)
}

// Clear releases every identifier but keeps the counter, so future
// automatic assignments stay unique against the whole history.
func (r *Registry) Clear() {
	r.used = nil
}

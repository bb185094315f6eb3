/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

// ErrorsHolder is implemented by entities that carry an Errors accumulator
// but run no validation of their own.
type ErrorsHolder interface {
	Errors() *Errors
}

// Validateable is implemented by entities that validate themselves.
// Validate reports whether the entity is valid and records failures in the
// accumulator returned by Errors.
type Validateable interface {
	ErrorsHolder
	Validate() bool
}

// ErrorsOf returns the accumulator of e, or nil when e carries none.
func ErrorsOf(e any) *Errors {
	if h, ok := e.(ErrorsHolder); ok {
		return h.Errors()
	}
	return nil
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"reflect"
	"sync"
)

// ObjectError is a failure that applies to the entity as a whole.
type ObjectError struct {
	// Codes are message codes from most to least specific.
	Codes          []string
	Args           []any
	DefaultMessage string
}

// Code returns the least specific message code, which is the one the
// error was rejected with.
func (e ObjectError) Code() string {
	if len(e.Codes) == 0 {
		return ""
	}
	return e.Codes[len(e.Codes)-1]
}

// FieldError is a failure tied to one property.
type FieldError struct {
	ObjectError
	Field         string
	RejectedValue any
}

// Errors accumulates validation failures for one entity. It is safe for
// concurrent use. The zero value is usable.
type Errors struct {
	mu         sync.RWMutex
	objectName string
	fields     []string
	fieldErrs  map[string][]FieldError
	globalErrs []ObjectError
}

// NewErrors returns an accumulator for entities named objectName.
func NewErrors(objectName string) *Errors {
	return &Errors{objectName: objectName}
}

// ObjectName returns the entity name used to build message codes.
func (e *Errors) ObjectName() string { return e.objectName }

func (e *Errors) codes(code, field string) []string {
	if field == "" {
		if e.objectName == "" {
			return []string{code}
		}
		return []string{e.objectName + "." + code, code}
	}
	out := make([]string, 0, 3)
	if e.objectName != "" {
		out = append(out, e.objectName+"."+field+"."+code)
	}
	return append(out, field+"."+code, code)
}

// Reject records a global error. Duplicates are ignored.
func (e *Errors) Reject(code, defaultMessage string, args ...any) {
	oe := ObjectError{Codes: e.codes(code, ""), Args: args, DefaultMessage: defaultMessage}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.globalErrs {
		if reflect.DeepEqual(existing, oe) {
			return
		}
	}
	e.globalErrs = append(e.globalErrs, oe)
}

// RejectField records an error for field. Duplicates are ignored.
func (e *Errors) RejectField(field string, rejectedValue any, code, defaultMessage string, args ...any) {
	fe := FieldError{
		ObjectError:   ObjectError{Codes: e.codes(code, field), Args: args, DefaultMessage: defaultMessage},
		Field:         field,
		RejectedValue: rejectedValue,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fieldErrs == nil {
		e.fieldErrs = make(map[string][]FieldError)
	}
	existing, ok := e.fieldErrs[field]
	if !ok {
		e.fields = append(e.fields, field)
	}
	for _, x := range existing {
		if reflect.DeepEqual(x, fe) {
			return
		}
	}
	e.fieldErrs[field] = append(existing, fe)
}

func (e *Errors) HasErrors() bool {
	return e.HasGlobalErrors() || e.HasFieldErrors()
}

func (e *Errors) HasGlobalErrors() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.globalErrs) > 0
}

func (e *Errors) HasFieldErrors() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.fieldErrs) > 0
}

// FieldError returns the first error recorded for field.
func (e *Errors) FieldError(field string) (FieldError, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	errs := e.fieldErrs[field]
	if len(errs) == 0 {
		return FieldError{}, false
	}
	return errs[0], true
}

// FieldErrors returns a copy of the errors recorded for field.
func (e *Errors) FieldErrors(field string) []FieldError {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]FieldError(nil), e.fieldErrs[field]...)
}

// GlobalErrors returns a copy of the global errors.
func (e *Errors) GlobalErrors() []ObjectError {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]ObjectError(nil), e.globalErrs...)
}

// AllErrors returns global errors followed by field errors in the order
// their fields were first rejected.
func (e *Errors) AllErrors() []ObjectError {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]ObjectError, 0, len(e.globalErrs))
	out = append(out, e.globalErrs...)
	for _, f := range e.fields {
		for _, fe := range e.fieldErrs[f] {
			out = append(out, fe.ObjectError)
		}
	}
	return out
}

func (e *Errors) ErrorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := len(e.globalErrs)
	for _, errs := range e.fieldErrs {
		n += len(errs)
	}
	return n
}

func (e *Errors) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globalErrs = nil
	e.fieldErrs = nil
	e.fields = nil
}

// ClearField drops the errors recorded for field.
func (e *Errors) ClearField(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.fieldErrs[field]; !ok {
		return
	}
	delete(e.fieldErrs, field)
	for i, f := range e.fields {
		if f == field {
			e.fields = append(e.fields[:i], e.fields[i+1:]...)
			break
		}
	}
}

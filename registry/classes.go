/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
)

// Classes is a registry of domain classes keyed by Go type and by name.
// It is safe for concurrent use.
type Classes struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*entity.Class
	byName map[string]*entity.Class
}

// NewClasses returns an empty registry.
func NewClasses() *Classes {
	return &Classes{
		byType: make(map[reflect.Type]*entity.Class),
		byName: make(map[string]*entity.Class),
	}
}

// Register adds class. Registering a second class for the same type or
// under the same name fails with an already-exists error.
func (r *Classes) Register(class *entity.Class) error {
	if class == nil {
		return errors.NewInvalidArgumentError("class", "must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byType[class.Type()]; exists {
		return errors.NewAlreadyExistsError("class type", class.Type().String())
	}
	if _, exists := r.byName[class.Name()]; exists {
		return errors.NewAlreadyExistsError("class", class.Name())
	}
	r.byType[class.Type()] = class
	r.byName[class.Name()] = class
	return nil
}

// MustRegister is Register that panics on error.
func (r *Classes) MustRegister(classes ...*entity.Class) {
	for _, c := range classes {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the class of t. Pointer types resolve to the class of
// their element type.
func (r *Classes) Lookup(t reflect.Type) (*entity.Class, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[t]
	return c, ok
}

// LookupValue returns the class of the entity e.
func (r *Classes) LookupValue(e any) (*entity.Class, bool) {
	return r.Lookup(reflect.TypeOf(e))
}

// ByName returns the class registered under name.
func (r *Classes) ByName(name string) (*entity.Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns the registered classes sorted by name.
func (r *Classes) All() []*entity.Class {
	r.mu.RLock()
	out := make([]*entity.Class, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *entity.Class) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

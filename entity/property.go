/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"fmt"
	"reflect"

	"github.com/suparena/domainstore/errors"
)

// Property reads and writes one attribute of an entity through the
// accessor pair given at definition time.
type Property struct {
	name   string
	typ    reflect.Type
	unique bool
	get    func(any) (any, bool)
	set    func(any, reflect.Value) bool
}

// Option configures a Property.
type Option func(*Property)

// Unique flags a property whose value must not repeat within a dataset.
func Unique() Option {
	return func(p *Property) { p.unique = true }
}

func (p *Property) Name() string { return p.name }

func (p *Property) Type() reflect.Type { return p.typ }

func (p *Property) Unique() bool { return p.unique }

// Value returns the property value of e, nil when e is not an entity of
// the owning class.
func (p *Property) Value(e any) any {
	v, _ := p.get(e)
	return v
}

// SetValue assigns v to the property of e. Values convertible to the
// property type are converted and nil assigns the zero value.
func (p *Property) SetValue(e any, v any) error {
	rv, err := p.coerce(v)
	if err != nil {
		return err
	}
	if !p.set(e, rv) {
		return errors.NewInvalidArgumentError(p.name, fmt.Sprintf("cannot set property on %T", e))
	}
	return nil
}

func (p *Property) coerce(v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(p.typ), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == p.typ {
		return rv, nil
	}
	if rv.Type().AssignableTo(p.typ) {
		out := reflect.New(p.typ).Elem()
		out.Set(rv)
		return out, nil
	}
	if convertible(rv.Type(), p.typ) {
		return rv.Convert(p.typ), nil
	}
	return reflect.Value{}, errors.NewInvalidArgumentError(p.name,
		fmt.Sprintf("cannot assign %T to property of type %s", v, p.typ))
}

// convertible excludes the integer to string conversion reflect allows.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	if from.Kind() == reflect.String && to.Kind() != reflect.String {
		return false
	}
	return true
}

func (p *Property) String() string { return p.name }

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"fmt"
	"reflect"

	"github.com/suparena/domainstore/errors"
)

// Class describes one domain entity type: its name, the mapping that
// persists it, its identity and its properties. Entities are always
// pointers to the described struct.
type Class struct {
	name     string
	typ      reflect.Type
	mapping  string
	newFn    func() any
	identity *Property
	props    []*Property
	byName   map[string]*Property
}

// Name returns the class name used in messages and storage keys.
func (c *Class) Name() string { return c.name }

// Type returns the struct type; entities have type *Type().
func (c *Class) Type() reflect.Type { return c.typ }

// Mapping returns the handler mapping name, empty for the configured default.
func (c *Class) Mapping() string { return c.mapping }

// New returns a fresh zero-valued entity.
func (c *Class) New() any { return c.newFn() }

// Identity returns the identity property.
func (c *Class) Identity() *Property { return c.identity }

// IdentityOf returns the identity of e, 0 when unset.
func (c *Class) IdentityOf(e any) int64 {
	id, _ := c.identity.Value(e).(int64)
	return id
}

// SetIdentity assigns id to e.
func (c *Class) SetIdentity(e any, id int64) error {
	return c.identity.SetValue(e, id)
}

// Property looks up a property by name, identity included.
func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Properties returns the identity followed by the declared properties.
func (c *Class) Properties() []*Property {
	out := make([]*Property, 0, len(c.props)+1)
	out = append(out, c.identity)
	return append(out, c.props...)
}

// UniqueProperties returns the properties flagged Unique.
func (c *Class) UniqueProperties() []*Property {
	var out []*Property
	for _, p := range c.props {
		if p.unique {
			out = append(out, p)
		}
	}
	return out
}

// Owns reports whether e is a non-nil entity of this class.
func (c *Class) Owns(e any) bool {
	if e == nil {
		return false
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Elem() == c.typ
}

// Check returns an invalid-argument error unless c owns e.
func (c *Class) Check(e any) error {
	if c.Owns(e) {
		return nil
	}
	return errors.NewInvalidArgumentError("entity",
		fmt.Sprintf("expected *%s, got %T", c.typ, e))
}

func (c *Class) String() string { return c.name }

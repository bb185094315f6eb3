/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"fmt"
	"reflect"

	"github.com/suparena/domainstore/errors"
)

// Builder assembles the Class of entity type *T.
//
//	books := entity.Define[Book]("Book").
//	    Identity("id", func(b *Book) int64 { return b.ID }, func(b *Book, id int64) { b.ID = id })
//	entity.Field(books, "isbn", func(b *Book) string { return b.ISBN }, func(b *Book, v string) { b.ISBN = v }, entity.Unique())
//	class := books.MustBuild()
type Builder[T any] struct {
	class *Class
	err   error
}

// Define starts the description of entity type *T.
func Define[T any](name string) *Builder[T] {
	b := &Builder[T]{class: &Class{
		name:   name,
		typ:    reflect.TypeFor[T](),
		newFn:  func() any { return new(T) },
		byName: make(map[string]*Property),
	}}
	if name == "" {
		b.err = errors.NewInvalidArgumentError("name", "class name must not be empty")
	}
	if b.class.typ.Kind() != reflect.Struct {
		b.err = errors.NewInvalidArgumentError("type",
			fmt.Sprintf("%s is not a struct type", b.class.typ))
	}
	return b
}

// Mapping selects the handler mapping persisting the class.
func (b *Builder[T]) Mapping(name string) *Builder[T] {
	b.class.mapping = name
	return b
}

// Identity declares the identity property.
func (b *Builder[T]) Identity(name string, get func(*T) int64, set func(*T, int64)) *Builder[T] {
	if b.class.identity != nil {
		b.fail(name, "identity already declared")
		return b
	}
	p := newProperty(name, get, set)
	if p == nil {
		b.fail(name, "identity accessors must not be nil")
		return b
	}
	if b.add(p) {
		b.class.identity = p
	}
	return b
}

// Field declares a property of type V on b.
func Field[T, V any](b *Builder[T], name string, get func(*T) V, set func(*T, V), opts ...Option) *Builder[T] {
	p := newProperty(name, get, set)
	if p == nil {
		b.fail(name, "property accessors must not be nil")
		return b
	}
	for _, opt := range opts {
		opt(p)
	}
	if b.add(p) {
		b.class.props = append(b.class.props, p)
	}
	return b
}

func (b *Builder[T]) add(p *Property) bool {
	if p.name == "" {
		b.fail(p.name, "property name must not be empty")
		return false
	}
	if _, dup := b.class.byName[p.name]; dup {
		b.fail(p.name, "property declared twice")
		return false
	}
	b.class.byName[p.name] = p
	return true
}

func (b *Builder[T]) fail(field, msg string) {
	if b.err == nil {
		b.err = errors.NewInvalidArgumentError(field, fmt.Sprintf("%s: %s", b.class.name, msg))
	}
}

// Build returns the class or the first definition error.
func (b *Builder[T]) Build() (*Class, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.class.identity == nil {
		return nil, errors.NewInvalidArgumentError("identity",
			fmt.Sprintf("%s declares no identity", b.class.name))
	}
	return b.class, nil
}

// MustBuild is Build that panics on error.
func (b *Builder[T]) MustBuild() *Class {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func newProperty[T, V any](name string, get func(*T) V, set func(*T, V)) *Property {
	if get == nil || set == nil {
		return nil
	}
	return &Property{
		name: name,
		typ:  reflect.TypeFor[V](),
		get: func(e any) (any, bool) {
			t, ok := e.(*T)
			if !ok || t == nil {
				return nil, false
			}
			return get(t), true
		},
		set: func(e any, v reflect.Value) bool {
			t, ok := e.(*T)
			if !ok || t == nil {
				return false
			}
			val, _ := v.Interface().(V)
			set(t, val)
			return true
		},
	}
}

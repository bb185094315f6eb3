/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handler

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/registry"
)

// Base holds the method tables of a handler and dispatches calls to them.
// Tables are filled while the handler is built and only read afterwards.
type Base struct {
	mapping  string
	classes  *registry.Classes
	logger   *slog.Logger
	instance map[string]Method
	static   map[string]Method
	// unsupported names are dispatched but not advertised in Signatures.
	unsupported map[string]bool
	resolved    sync.Map // method name -> resolution
}

type resolution struct {
	base string
	expr string
}

// NewBase returns a handler with empty method tables. A nil logger discards.
func NewBase(mapping string, classes *registry.Classes, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if classes == nil {
		classes = registry.NewClasses()
	}
	return &Base{
		mapping:     mapping,
		classes:     classes,
		logger:      logger.With("mapping", mapping),
		instance:    make(map[string]Method),
		static:      make(map[string]Method),
		unsupported: make(map[string]bool),
	}
}

func (b *Base) Mapping() string { return b.mapping }

// Classes returns the classes the handler dispatches for.
func (b *Base) Classes() *registry.Classes { return b.classes }

func (b *Base) Logger() *slog.Logger { return b.logger }

// Instance registers an instance method.
func (b *Base) Instance(name string, m Method) *Base {
	b.instance[name] = m
	return b
}

// Static registers a static method.
func (b *Base) Static(name string, m Method) *Base {
	b.static[name] = m
	return b
}

// Unsupported registers names that fail with an unsupported-operation
// error, on both tables.
func (b *Base) Unsupported(names ...string) *Base {
	for _, name := range names {
		b.unsupported[name] = true
		b.instance[name] = unsupported
		b.static[name] = unsupported
	}
	return b
}

func unsupported(context.Context, Call) (any, error) {
	return nil, errors.ErrUnsupported
}

// Signatures returns the catalog signatures of the supported methods.
func (b *Base) Signatures() []methods.Signature {
	var names []string
	for _, table := range []map[string]Method{b.instance, b.static} {
		for name := range table {
			if !b.unsupported[name] {
				names = append(names, name)
			}
		}
	}
	var out []methods.Signature
	for _, s := range methods.SignaturesFor(names...) {
		table := b.instance
		if s.Static {
			table = b.static
		}
		if _, ok := table[s.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (b *Base) InvokeInstance(ctx context.Context, target any, method string, args ...any) (any, error) {
	if isNil(target) {
		return nil, errors.NewInvalidArgumentError("target", "cannot call "+method+"() on nil")
	}
	class, ok := b.classes.LookupValue(target)
	if !ok {
		return nil, errors.NewNotDomainError(method, reflect.TypeOf(target).String())
	}
	m, ok := b.instance[method]
	if !ok {
		return nil, errors.NewUndefinedMethodError(method, b.mapping)
	}
	b.logger.Debug("invoke instance method", "class", class.Name(), "method", method)
	return b.translate(method)(m(ctx, Call{Name: method, Base: method, Class: class, Target: target, Args: args}))
}

func (b *Base) InvokeStatic(ctx context.Context, typ reflect.Type, method string, args ...any) (any, error) {
	if typ == nil {
		return nil, errors.NewInvalidArgumentError("type", "cannot call "+method+"() on nil")
	}
	class, ok := b.classes.Lookup(typ)
	if !ok {
		return nil, errors.NewNotDomainError(method, typ.String())
	}
	res, ok := b.resolve(method)
	if !ok {
		return nil, errors.NewUndefinedMethodError(method, b.mapping)
	}
	b.logger.Debug("invoke static method", "class", class.Name(), "method", method, "base", res.base)
	m := b.static[res.base]
	return b.translate(method)(m(ctx, Call{Name: method, Base: res.base, Expr: res.expr, Class: class, Args: args}))
}

// resolve maps a static method name to its table entry, memoising dynamic
// names.
func (b *Base) resolve(method string) (resolution, bool) {
	if r, ok := b.resolved.Load(method); ok {
		return r.(resolution), true
	}
	r := resolution{base: method}
	if _, ok := b.static[method]; !ok {
		base, expr, dynamic := methods.ResolveDynamic(method)
		if !dynamic {
			return resolution{}, false
		}
		if _, ok := b.static[base]; !ok {
			return resolution{}, false
		}
		r = resolution{base: base, expr: expr}
		b.logger.Debug("resolved dynamic method", "method", method, "base", base, "expr", expr)
	}
	actual, _ := b.resolved.LoadOrStore(method, r)
	return actual.(resolution), true
}

// translate turns a bare unsupported error into an UnsupportedOperationError
// naming the call.
func (b *Base) translate(method string) func(any, error) (any, error) {
	return func(result any, err error) (any, error) {
		if err == nil {
			return result, nil
		}
		var uoe *errors.UnsupportedOperationError
		if stderrors.As(err, &uoe) {
			return nil, err
		}
		if stderrors.Is(err, errors.ErrUnsupported) || stderrors.Is(err, stderrors.ErrUnsupported) {
			return nil, errors.NewUnsupportedOperationError(method, b.mapping, err)
		}
		return nil, err
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

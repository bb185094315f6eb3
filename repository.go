/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package domainstore

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/methods"
)

// Repository is the typed view of the catalog methods of one domain class.
// Dynamic finders take the expression without its prefix, e.g.
// FindAllBy(ctx, "TitleLikeAndPagesGreaterThan", "Go%", 100).
type Repository[T any] struct {
	store *Store
	typ   reflect.Type
}

// For returns the repository of T, which must be a registered class.
func For[T any](s *Store) (*Repository[T], error) {
	typ := reflect.TypeFor[T]()
	if _, ok := s.classes.Lookup(typ); !ok {
		return nil, errors.NewNotDomainError("For", typ.String())
	}
	return &Repository[T]{store: s, typ: reflect.PointerTo(typ)}, nil
}

// MustFor is For that panics on error.
func MustFor[T any](s *Store) *Repository[T] {
	r, err := For[T](s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Repository[T]) static(ctx context.Context, method string, args ...any) (any, error) {
	return r.store.InvokeStatic(ctx, r.typ, method, args...)
}

func (r *Repository[T]) one(ctx context.Context, method string, args ...any) (*T, error) {
	v, err := r.static(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return entityOf[T](v)
}

func (r *Repository[T]) many(ctx context.Context, method string, args ...any) ([]*T, error) {
	v, err := r.static(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, not a list", method, v)
	}
	out := make([]*T, 0, len(items))
	for _, item := range items {
		e, err := entityOf[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func entityOf[T any](v any) (*T, error) {
	if v == nil {
		return nil, nil
	}
	e, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("expected %s, got %T", reflect.TypeFor[*T](), v)
	}
	return e, nil
}

// Save saves e. It returns nil without error when validation or uniqueness
// fails and failOnError is off; the failures are then on e's Errors.
func (r *Repository[T]) Save(ctx context.Context, e *T, options ...map[string]any) (*T, error) {
	args := make([]any, 0, len(options))
	for _, o := range options {
		args = append(args, o)
	}
	v, err := r.store.InvokeInstance(ctx, e, methods.Save, args...)
	if err != nil {
		return nil, err
	}
	return entityOf[T](v)
}

// Delete removes e and returns it, or nil when it was not stored.
func (r *Repository[T]) Delete(ctx context.Context, e *T) (*T, error) {
	v, err := r.store.InvokeInstance(ctx, e, methods.Delete)
	if err != nil {
		return nil, err
	}
	return entityOf[T](v)
}

// Create returns a new unsaved entity with props applied.
func (r *Repository[T]) Create(ctx context.Context, props map[string]any) (*T, error) {
	if props == nil {
		return r.one(ctx, methods.Create)
	}
	return r.one(ctx, methods.Create, props)
}

func (r *Repository[T]) Fetch(ctx context.Context, id int64) (*T, error) {
	return r.one(ctx, methods.Fetch, id)
}

func (r *Repository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	v, err := r.static(ctx, methods.Exists, id)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// FetchAll returns the entities stored under ids, or every entity when ids
// is empty. Missing identities are skipped.
func (r *Repository[T]) FetchAll(ctx context.Context, ids ...int64) ([]*T, error) {
	if len(ids) == 0 {
		return r.many(ctx, methods.FetchAll)
	}
	return r.many(ctx, methods.FetchAll, ids)
}

func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	return r.count(ctx, methods.Count)
}

func (r *Repository[T]) CountBy(ctx context.Context, expr string, args ...any) (int, error) {
	return r.count(ctx, methods.CountBy+expr, args...)
}

func (r *Repository[T]) count(ctx context.Context, method string, args ...any) (int, error) {
	v, err := r.static(ctx, method, args...)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// List returns every entity, sorted and paged by the optional options map
// (max, offset, sort, order, ignoreCase).
func (r *Repository[T]) List(ctx context.Context, options map[string]any) ([]*T, error) {
	if options == nil {
		return r.many(ctx, methods.List)
	}
	return r.many(ctx, methods.List, options)
}

// ListOrderBy returns every entity sorted by property.
func (r *Repository[T]) ListOrderBy(ctx context.Context, property string, options map[string]any) ([]*T, error) {
	method := methods.ListOrderBy + capitalize(property)
	if options == nil {
		return r.many(ctx, method)
	}
	return r.many(ctx, method, options)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// First returns the entity with the lowest identity.
func (r *Repository[T]) First(ctx context.Context) (*T, error) {
	return r.one(ctx, methods.First)
}

// Last returns the entity with the highest identity.
func (r *Repository[T]) Last(ctx context.Context) (*T, error) {
	return r.one(ctx, methods.Last)
}

// Find takes an example entity, a filter map, a criterion or a
// criterion.Func.
func (r *Repository[T]) Find(ctx context.Context, args ...any) (*T, error) {
	return r.one(ctx, methods.Find, args...)
}

func (r *Repository[T]) FindWhere(ctx context.Context, filter map[string]any) (*T, error) {
	return r.one(ctx, methods.FindWhere, filter)
}

func (r *Repository[T]) FindBy(ctx context.Context, expr string, args ...any) (*T, error) {
	return r.one(ctx, methods.FindBy+expr, args...)
}

// FindAll takes the arguments of Find; no arguments lists every entity.
func (r *Repository[T]) FindAll(ctx context.Context, args ...any) ([]*T, error) {
	return r.many(ctx, methods.FindAll, args...)
}

func (r *Repository[T]) FindAllWhere(ctx context.Context, filter map[string]any) ([]*T, error) {
	return r.many(ctx, methods.FindAllWhere, filter)
}

func (r *Repository[T]) FindAllBy(ctx context.Context, expr string, args ...any) ([]*T, error) {
	return r.many(ctx, methods.FindAllBy+expr, args...)
}

// WithCriteria returns the entities matching c.
func (r *Repository[T]) WithCriteria(ctx context.Context, c criterion.Criterion, options ...map[string]any) ([]*T, error) {
	args := []any{c}
	for _, o := range options {
		args = append(args, o)
	}
	return r.many(ctx, methods.WithCriteria, args...)
}

// FindOrCreateBy returns the first match of expr or a new unsaved entity
// carrying its equality values.
func (r *Repository[T]) FindOrCreateBy(ctx context.Context, expr string, args ...any) (*T, error) {
	return r.one(ctx, methods.FindOrCreateBy+expr, args...)
}

func (r *Repository[T]) FindOrCreateWhere(ctx context.Context, filter map[string]any) (*T, error) {
	return r.one(ctx, methods.FindOrCreateWhere, filter)
}

// FindOrSaveBy is FindOrCreateBy saving the created entity.
func (r *Repository[T]) FindOrSaveBy(ctx context.Context, expr string, args ...any) (*T, error) {
	return r.one(ctx, methods.FindOrSaveBy+expr, args...)
}

func (r *Repository[T]) FindOrSaveWhere(ctx context.Context, filter map[string]any) (*T, error) {
	return r.one(ctx, methods.FindOrSaveWhere, filter)
}

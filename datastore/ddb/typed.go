/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/suparena/domainstore/datastore"
	"github.com/suparena/domainstore/errors"
)

// TypedTable is the generic DataStore view of a Table.
type TypedTable[T any] struct {
	table *Table
}

var _ datastore.DataStore[struct{}] = (*TypedTable[struct{}])(nil)

// Typed returns the view of table for entities of type *T.
func Typed[T any](table *Table) (*TypedTable[T], error) {
	if table == nil {
		return nil, errors.NewInvalidArgumentError("table", "must not be nil")
	}
	if want := reflect.TypeFor[T](); table.Class().Type() != want {
		return nil, errors.NewInvalidArgumentError("table",
			fmt.Sprintf("table stores %s, not %s", table.Class().Type(), want))
	}
	return &TypedTable[T]{table: table}, nil
}

func (s *TypedTable[T]) Save(ctx context.Context, e *T) (*T, error) {
	if _, err := s.table.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *TypedTable[T]) Fetch(ctx context.Context, id int64) (*T, error) {
	e, err := s.table.Fetch(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	return e.(*T), nil
}

func (s *TypedTable[T]) Remove(ctx context.Context, e *T) (*T, error) {
	removed, err := s.table.Remove(ctx, e)
	if err != nil || removed == nil {
		return nil, err
	}
	return e, nil
}

func (s *TypedTable[T]) List(ctx context.Context) ([]*T, error) {
	items, err := s.table.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*T, len(items))
	for i, e := range items {
		out[i] = e.(*T)
	}
	return out, nil
}

func (s *TypedTable[T]) Size(ctx context.Context) (int, error) {
	return s.table.Size(ctx)
}

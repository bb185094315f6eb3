/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
)

// DataStore is the typed CRUD surface shared by the in-memory and the
// DynamoDB stores.
type DataStore[T any] interface {
	Save(ctx context.Context, e *T) (*T, error)

	Fetch(ctx context.Context, id int64) (*T, error)

	Remove(ctx context.Context, e *T) (*T, error)

	List(ctx context.Context) ([]*T, error)

	Size(ctx context.Context) (int, error)
}

// DefaultName names the datastore every memory mapping owns.
const DefaultName = "default"

// Datastore holds one Dataset per entity class. Datasets are created on
// first access and live as long as the Datastore.
type Datastore struct {
	name     string
	logger   *slog.Logger
	mu       sync.Mutex
	datasets sync.Map // reflect.Type -> *Dataset
}

// Option configures a Datastore.
type Option func(*Datastore)

// WithLogger sets the logger used for dataset lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Datastore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an empty datastore.
func New(name string, opts ...Option) *Datastore {
	s := &Datastore{
		name:   name,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Datastore) Name() string { return s.name }

// Dataset returns the dataset of class, creating it on first use. Concurrent
// first calls for the same class all receive the same dataset.
func (s *Datastore) Dataset(class *entity.Class) (*Dataset, error) {
	if class == nil {
		return nil, errors.NewInvalidArgumentError("class", "must not be nil")
	}
	if ds, ok := s.datasets.Load(class.Type()); ok {
		return ds.(*Dataset), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ds, ok := s.datasets.Load(class.Type()); ok {
		return ds.(*Dataset), nil
	}
	ds := NewDataset(class)
	s.datasets.Store(class.Type(), ds)
	s.logger.Debug("created dataset", "datastore", s.name, "class", class.Name())
	return ds, nil
}

// Classes returns the classes with a dataset, sorted by name.
func (s *Datastore) Classes() []*entity.Class {
	var classes []*entity.Class
	s.datasets.Range(func(_, v any) bool {
		classes = append(classes, v.(*Dataset).Class())
		return true
	})
	slices.SortFunc(classes, func(a, b *entity.Class) int { return strings.Compare(a.Name(), b.Name()) })
	return classes
}

// Store is a typed view of a Dataset.
type Store[T any] struct {
	ds *Dataset
}

var _ DataStore[struct{}] = (*Store[struct{}])(nil)

// Typed returns the view of ds for entities of type *T.
func Typed[T any](ds *Dataset) (*Store[T], error) {
	if ds == nil {
		return nil, errors.NewInvalidArgumentError("dataset", "must not be nil")
	}
	if want := reflect.TypeFor[T](); ds.Class().Type() != want {
		return nil, errors.NewInvalidArgumentError("dataset",
			fmt.Sprintf("dataset stores %s, not %s", ds.Class().Type(), want))
	}
	return &Store[T]{ds: ds}, nil
}

func (s *Store[T]) Dataset() *Dataset { return s.ds }

func (s *Store[T]) Save(_ context.Context, e *T) (*T, error) {
	if _, err := s.ds.Save(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Fetch returns nil without error when id is not stored.
func (s *Store[T]) Fetch(_ context.Context, id int64) (*T, error) {
	return cast[T](s.ds.Fetch(id)), nil
}

func (s *Store[T]) Remove(_ context.Context, e *T) (*T, error) {
	return cast[T](s.ds.Remove(e)), nil
}

func (s *Store[T]) List(_ context.Context) ([]*T, error) {
	return castAll[T](s.ds.List()), nil
}

func (s *Store[T]) Query(_ context.Context, c criterion.Criterion) ([]*T, error) {
	items, err := s.ds.QueryMatching(c)
	if err != nil {
		return nil, err
	}
	return castAll[T](items), nil
}

func (s *Store[T]) First(_ context.Context, c criterion.Criterion) (*T, error) {
	e, err := s.ds.FirstMatching(c)
	if err != nil {
		return nil, err
	}
	return cast[T](e), nil
}

func (s *Store[T]) Size(_ context.Context) (int, error) {
	return s.ds.Size(), nil
}

func cast[T any](e any) *T {
	t, _ := e.(*T)
	return t
}

func castAll[T any](items []any) []*T {
	out := make([]*T, 0, len(items))
	for _, e := range items {
		if t, ok := e.(*T); ok {
			out = append(out, t)
		}
	}
	return out
}

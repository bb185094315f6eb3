/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"cmp"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/suparena/domainstore/datastore"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/handler"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/registry"
)

// Handler is the memory mapping. Every class it dispatches for is stored
// in the default datastore.
type Handler struct {
	*handler.Base
	datastore  *datastore.Datastore
	datastores map[string]*datastore.Datastore
	saver      *methods.Saver
}

type options struct {
	logger       *slog.Logger
	failOnError  bool
	strictUnique bool
	datastores   []string
}

// Option configures a Handler.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFailOnError makes save fail instead of returning nil when the call
// does not pass failOnError itself.
func WithFailOnError(failOnError bool) Option {
	return func(o *options) { o.failOnError = failOnError }
}

// WithStrictUnique serialises uniqueness checks with the writes they guard.
// Save hooks then run while the dataset lock is held and must not write
// entities of the same class.
func WithStrictUnique() Option {
	return func(o *options) { o.strictUnique = true }
}

// WithDatastores creates additional named datastores next to the default.
func WithDatastores(names ...string) Option {
	return func(o *options) { o.datastores = append(o.datastores, names...) }
}

// New returns a memory handler for classes.
func New(classes *registry.Classes, opts ...Option) *Handler {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Handler{
		Base:       handler.NewBase(handler.MappingMemory, classes, o.logger),
		datastore:  datastore.New(datastore.DefaultName, datastore.WithLogger(o.logger)),
		datastores: make(map[string]*datastore.Datastore),
		saver: &methods.Saver{
			FailOnError:  o.failOnError,
			StrictUnique: o.strictUnique,
			Logger:       o.logger,
		},
	}
	for _, name := range o.datastores {
		name = strings.TrimSpace(name)
		if name == "" || name == datastore.DefaultName {
			continue
		}
		h.datastores[name] = datastore.New(name, datastore.WithLogger(o.logger))
	}

	h.Instance(methods.Save, h.save).
		Instance(methods.Delete, h.delete).
		Static(methods.Create, h.create).
		Static(methods.Fetch, h.fetch).
		Static(methods.Exists, h.exists).
		Static(methods.FetchAll, h.fetchAll).
		Static(methods.Count, h.count).
		Static(methods.CountBy, h.countBy).
		Static(methods.List, h.list).
		Static(methods.ListOrderBy, h.listOrderBy).
		Static(methods.First, h.first).
		Static(methods.Last, h.last).
		Static(methods.Find, h.find).
		Static(methods.FindWhere, h.findWhere).
		Static(methods.FindBy, h.findBy).
		Static(methods.FindAll, h.findAll).
		Static(methods.FindAllWhere, h.findAllWhere).
		Static(methods.FindAllBy, h.findAllBy).
		Static(methods.FindOrCreateBy, h.findOrCreateBy).
		Static(methods.FindOrCreateWhere, h.findOrCreateWhere).
		Static(methods.FindOrSaveBy, h.findOrSaveBy).
		Static(methods.FindOrSaveWhere, h.findOrSaveWhere).
		Static(methods.WithCriteria, h.withCriteria)
	return h
}

// Datastore returns the named datastore; a blank name or "default" is the
// datastore the handler persists to.
func (h *Handler) Datastore(name string) (*datastore.Datastore, bool) {
	if name = strings.TrimSpace(name); name == "" || name == datastore.DefaultName {
		return h.datastore, true
	}
	ds, ok := h.datastores[name]
	return ds, ok
}

// Datastores returns the datastore names, default first.
func (h *Handler) Datastores() []string {
	names := make([]string, 0, len(h.datastores))
	for name := range h.datastores {
		names = append(names, name)
	}
	slices.Sort(names)
	return append([]string{datastore.DefaultName}, names...)
}

func (h *Handler) dataset(call handler.Call) (*datastore.Dataset, error) {
	return h.datastore.Dataset(call.Class)
}

func (h *Handler) persister(call handler.Call) (methods.Persister, error) {
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return methods.DatasetPersister(ds), nil
}

func missing(call handler.Call) error {
	return errors.NewMissingMethodError(call.Name, call.Class.Name(), call.Args)
}

func sortByIdentity(class *entity.Class, items []any) []any {
	slices.SortStableFunc(items, func(a, b any) int {
		return cmp.Compare(class.IdentityOf(a), class.IdentityOf(b))
	})
	return items
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/suparena/domainstore/datastore"
	ddbstore "github.com/suparena/domainstore/datastore/ddb"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/handler"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/registry"
	"github.com/suparena/domainstore/storagemodels"
)

// Handler is the dynamodb mapping. All classes share one table; items are
// told apart by their keys and EntityType attribute.
type Handler struct {
	*handler.Base
	api       ddbstore.API
	tableName string
	tableOpts []ddbstore.TableOption
	tables    sync.Map // *entity.Class -> *tableStore
	saver     *methods.Saver
}

type options struct {
	logger       *slog.Logger
	failOnError  bool
	strictUnique bool
	tableOpts    []ddbstore.TableOption
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

func WithFailOnError(failOnError bool) Option {
	return func(o *options) { o.failOnError = failOnError }
}

// WithStrictUnique serialises uniqueness checks with the writes they
// guard, within this process. Save hooks then run while the table lock is
// held and must not write entities of the same class.
func WithStrictUnique() Option {
	return func(o *options) { o.strictUnique = true }
}

// WithKeyTemplates overrides the PK and SK templates of every class table.
func WithKeyTemplates(pk, sk string) Option {
	return func(o *options) { o.tableOpts = append(o.tableOpts, ddbstore.WithKeyTemplates(pk, sk)) }
}

// supported lists the catalog methods the mapping implements. The rest
// need a query engine over the table and are rejected as unsupported.
var supported = map[string]bool{
	methods.Save:     true,
	methods.Delete:   true,
	methods.Fetch:    true,
	methods.Exists:   true,
	methods.FetchAll: true,
	methods.Count:    true,
	methods.List:     true,
	methods.Create:   true,
}

// New returns a dynamodb handler storing classes in tableName.
func New(api ddbstore.API, tableName string, classes *registry.Classes, opts ...Option) (*Handler, error) {
	if api == nil {
		return nil, errors.NewInvalidArgumentError("api", "must not be nil")
	}
	if tableName == "" {
		return nil, errors.NewInvalidArgumentError("table", "must not be empty")
	}
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Handler{
		Base:      handler.NewBase(handler.MappingDynamoDB, classes, o.logger),
		api:       api,
		tableName: tableName,
		tableOpts: o.tableOpts,
		saver: &methods.Saver{
			FailOnError:  o.failOnError,
			StrictUnique: o.strictUnique,
			Logger:       o.logger,
		},
	}

	var rejected []string
	for _, name := range methods.Names() {
		if !supported[name] {
			rejected = append(rejected, name)
		}
	}
	h.Instance(methods.Save, h.save).
		Instance(methods.Delete, h.delete).
		Static(methods.Create, h.create).
		Static(methods.Fetch, h.fetch).
		Static(methods.Exists, h.exists).
		Static(methods.FetchAll, h.fetchAll).
		Static(methods.Count, h.count).
		Static(methods.List, h.list).
		Unsupported(rejected...)
	return h, nil
}

// Table returns the table view of class.
func (h *Handler) Table(class *entity.Class) (*ddbstore.Table, error) {
	ts, err := h.store(class)
	if err != nil {
		return nil, err
	}
	return ts.Table, nil
}

func (h *Handler) store(class *entity.Class) (*tableStore, error) {
	if ts, ok := h.tables.Load(class); ok {
		return ts.(*tableStore), nil
	}
	t, err := ddbstore.NewTable(h.api, h.tableName, class, h.tableOpts...)
	if err != nil {
		return nil, err
	}
	ts, loaded := h.tables.LoadOrStore(class, &tableStore{Table: t})
	if !loaded {
		h.Logger().Debug("created table view", "class", class.Name(), "table", h.tableName)
	}
	return ts.(*tableStore), nil
}

// tableStore adapts a Table to methods.Persister.
type tableStore struct {
	*ddbstore.Table
	mu sync.Mutex
}

func (s *tableStore) Exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func missing(call handler.Call) error {
	return errors.NewMissingMethodError(call.Name, call.Class.Name(), call.Args)
}

func (h *Handler) save(ctx context.Context, call handler.Call) (any, error) {
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	return h.saver.Save(ctx, ts, call.Target, call.Args...)
}

func (h *Handler) delete(ctx context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 0 {
		return nil, missing(call)
	}
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	return methods.DeleteEntity(ctx, ts, call.Target)
}

func (h *Handler) create(_ context.Context, call handler.Call) (any, error) {
	switch len(call.Args) {
	case 0:
		return call.Class.New(), nil
	case 1:
		if props, ok := methods.Map(call.Args[0]); ok {
			return methods.NewEntity(call.Class, props)
		}
	}
	return nil, missing(call)
}

func (h *Handler) fetch(ctx context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 1 {
		return nil, missing(call)
	}
	id, ok := methods.ID(call.Args[0])
	if !ok {
		return nil, missing(call)
	}
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	return ts.Fetch(ctx, id)
}

func (h *Handler) exists(ctx context.Context, call handler.Call) (any, error) {
	e, err := h.fetch(ctx, call)
	if err != nil {
		return nil, err
	}
	return e != nil, nil
}

func (h *Handler) fetchAll(ctx context.Context, call handler.Call) (any, error) {
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	if len(call.Args) == 0 {
		return ts.List(ctx)
	}
	ids, ok := methods.IDs(call.Args)
	if !ok {
		return nil, missing(call)
	}
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		e, err := ts.Fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if e != nil {
			items = append(items, e)
		}
	}
	slices.SortStableFunc(items, func(a, b any) int {
		return cmp.Compare(call.Class.IdentityOf(a), call.Class.IdentityOf(b))
	})
	return items, nil
}

func (h *Handler) count(ctx context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 0 {
		return nil, missing(call)
	}
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	return ts.Size(ctx)
}

func (h *Handler) list(ctx context.Context, call handler.Call) (any, error) {
	var m map[string]any
	switch len(call.Args) {
	case 0:
	case 1:
		var ok bool
		if m, ok = methods.Map(call.Args[0]); !ok {
			return nil, missing(call)
		}
	default:
		return nil, missing(call)
	}
	opts, err := storagemodels.ParseQueryOptions(m)
	if err != nil {
		return nil, err
	}
	ts, err := h.store(call.Class)
	if err != nil {
		return nil, err
	}
	items, err := ts.List(ctx)
	if err != nil {
		return nil, err
	}
	return datastore.Arrange(call.Class, items, opts)
}

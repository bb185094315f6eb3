/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package domainstore

import (
	"context"
	"io"
	"log/slog"
	"reflect"

	"github.com/suparena/domainstore/config"
	ddbstore "github.com/suparena/domainstore/datastore/ddb"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/handler"
	ddbhandler "github.com/suparena/domainstore/handler/ddb"
	"github.com/suparena/domainstore/handler/memory"
	"github.com/suparena/domainstore/registry"
)

// Store wires the class registry to the handler mappings. Each class is
// dispatched to the handler named by its mapping, or to the configured
// default mapping when it names none.
type Store struct {
	cfg      *config.Config
	logger   *slog.Logger
	classes  *registry.Classes
	handlers *handler.Registry
	memory   *memory.Handler
}

type options struct {
	logger   *slog.Logger
	api      ddbstore.API
	classes  []*entity.Class
	handlers []handler.Handler
}

// Option configures a Store.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDynamoDBAPI sets the client of the dynamodb mapping instead of one
// built from the configuration. The mapping is registered only when a table
// is configured.
func WithDynamoDBAPI(api ddbstore.API) Option {
	return func(o *options) { o.api = api }
}

// WithClasses registers classes when the store is created.
func WithClasses(classes ...*entity.Class) Option {
	return func(o *options) { o.classes = append(o.classes, classes...) }
}

// WithHandler registers an additional mapping.
func WithHandler(h handler.Handler) Option {
	return func(o *options) { o.handlers = append(o.handlers, h) }
}

// New creates a store from cfg; a nil cfg uses config.Default. The memory
// and default mappings are always registered.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		cfg:      cfg,
		logger:   o.logger,
		classes:  registry.NewClasses(),
		handlers: handler.NewRegistry(cfg.Domain.DefaultMapping),
	}

	memOpts := []memory.Option{
		memory.WithLogger(o.logger),
		memory.WithFailOnError(cfg.Domain.FailOnError),
		memory.WithDatastores(cfg.Domain.Datastores...),
	}
	if cfg.Domain.StrictUnique {
		memOpts = append(memOpts, memory.WithStrictUnique())
	}
	s.memory = memory.New(s.classes, memOpts...)

	all := []handler.Handler{s.memory, handler.NewDefault(s.classes, o.logger)}
	if cfg.DynamoDB.Enabled() {
		h, err := s.dynamoDB(ctx, o.api)
		if err != nil {
			return nil, err
		}
		all = append(all, h)
	}
	for _, h := range append(all, o.handlers...) {
		if err := s.handlers.Register(h); err != nil {
			return nil, err
		}
	}
	if _, err := s.handlers.Resolve(""); err != nil {
		return nil, err
	}

	if err := s.Register(o.classes...); err != nil {
		return nil, err
	}
	s.logger.Debug("store ready", "mappings", s.handlers.Mappings(), "default", s.handlers.DefaultMapping())
	return s, nil
}

func (s *Store) dynamoDB(ctx context.Context, api ddbstore.API) (*ddbhandler.Handler, error) {
	dc := s.cfg.DynamoDB
	if api == nil {
		client, err := ddbstore.NewClient(ctx, ddbstore.ClientConfig{
			Region:    dc.Region,
			AccessKey: dc.AccessKey,
			SecretKey: dc.SecretKey,
			Endpoint:  dc.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		api = client
	}
	opts := []ddbhandler.Option{
		ddbhandler.WithLogger(s.logger),
		ddbhandler.WithFailOnError(s.cfg.Domain.FailOnError),
	}
	if s.cfg.Domain.StrictUnique {
		opts = append(opts, ddbhandler.WithStrictUnique())
	}
	return ddbhandler.New(api, dc.Table, s.classes, opts...)
}

// Register adds domain classes. A class naming a mapping that is not
// registered is rejected.
func (s *Store) Register(classes ...*entity.Class) error {
	for _, c := range classes {
		if c == nil {
			return errors.NewInvalidArgumentError("class", "must not be nil")
		}
		if _, err := s.handlers.Resolve(c.Mapping()); err != nil {
			return err
		}
		if err := s.classes.Register(c); err != nil {
			return err
		}
		s.logger.Debug("registered class", "class", c.Name(), "mapping", s.mappingOf(c))
	}
	return nil
}

func (s *Store) Config() *config.Config { return s.cfg }

func (s *Store) Classes() *registry.Classes { return s.classes }

func (s *Store) Handlers() *handler.Registry { return s.handlers }

// Memory returns the memory mapping.
func (s *Store) Memory() *memory.Handler { return s.memory }

func (s *Store) mappingOf(c *entity.Class) string {
	if c.Mapping() == "" {
		return s.handlers.DefaultMapping()
	}
	return c.Mapping()
}

// HandlerFor returns the handler dispatching for the class of typ.
func (s *Store) HandlerFor(typ reflect.Type) (handler.Handler, error) {
	class, ok := s.classes.Lookup(typ)
	if !ok {
		// Any handler rejects the type as not domain.
		return s.handlers.Resolve("")
	}
	return s.handlers.Resolve(class.Mapping())
}

// InvokeInstance calls method on the entity target.
func (s *Store) InvokeInstance(ctx context.Context, target any, method string, args ...any) (any, error) {
	if target == nil {
		return nil, errors.NewInvalidArgumentError("target", "must not be nil")
	}
	h, err := s.HandlerFor(reflect.TypeOf(target))
	if err != nil {
		return nil, err
	}
	return h.InvokeInstance(ctx, target, method, args...)
}

// InvokeStatic calls method on the domain class of typ.
func (s *Store) InvokeStatic(ctx context.Context, typ reflect.Type, method string, args ...any) (any, error) {
	if typ == nil {
		return nil, errors.NewInvalidArgumentError("type", "must not be nil")
	}
	h, err := s.HandlerFor(typ)
	if err != nil {
		return nil, err
	}
	return h.InvokeStatic(ctx, typ, method, args...)
}

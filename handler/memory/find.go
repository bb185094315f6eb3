/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"
	"slices"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/datastore"
	"github.com/suparena/domainstore/handler"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/storagemodels"
)

// shape is a set of accepted leading arguments of the find family.
type shape int

const (
	// shapeFilter is a property map.
	shapeFilter shape = 1 << iota
	// shapeCriterion is a criterion or a predicate builder.
	shapeCriterion
	// shapeExample is an entity of the class.
	shapeExample
	// shapeOptionsBuilder is an options map followed by a builder.
	shapeOptionsBuilder
)

type selection struct {
	crit criterion.Criterion
	opts storagemodels.QueryOptions
}

// selection parses one or two arguments: a selector of an allowed shape
// optionally followed by an options map.
func parseSelection(call handler.Call, allowed shape) (selection, error) {
	args := call.Args
	if len(args) == 0 || len(args) > 2 {
		return selection{}, missing(call)
	}

	var sel selection
	if m, ok := methods.Map(args[0]); ok && len(args) == 2 && methods.IsBuilder(args[1]) {
		if allowed&shapeOptionsBuilder == 0 {
			return selection{}, missing(call)
		}
		opts, err := storagemodels.ParseQueryOptions(m)
		if err != nil {
			return selection{}, err
		}
		c, _ := methods.Criterion(args[1])
		return selection{crit: c, opts: opts}, nil
	}

	switch {
	case allowed&shapeFilter != 0 && isMap(args[0]):
		m, _ := methods.Map(args[0])
		sel.crit = filterCriterion(m)
	case allowed&shapeCriterion != 0 && isCriterion(args[0]):
		sel.crit, _ = methods.Criterion(args[0])
	case allowed&shapeExample != 0 && call.Class.Owns(args[0]):
		c, err := datastore.ExampleCriterion(call.Class, args[0])
		if err != nil {
			return selection{}, err
		}
		sel.crit = c
	default:
		return selection{}, missing(call)
	}

	if len(args) == 2 {
		m, ok := methods.Map(args[1])
		if !ok {
			return selection{}, missing(call)
		}
		opts, err := storagemodels.ParseQueryOptions(m)
		if err != nil {
			return selection{}, err
		}
		sel.opts = opts
	}
	return sel, nil
}

func isMap(v any) bool {
	_, ok := methods.Map(v)
	return ok
}

func isCriterion(v any) bool {
	_, ok := methods.Criterion(v)
	return ok
}

// filterCriterion is the conjunction of equalities of a property map, in
// key order.
func filterCriterion(m map[string]any) criterion.Criterion {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	clauses := make([]criterion.Criterion, len(keys))
	for i, k := range keys {
		clauses[i] = criterion.Eq(k, m[k])
	}
	return criterion.And(clauses...)
}

// expression parses the query of a dynamic name, or of the bare method
// called with the expression as first argument.
func expression(call handler.Call) (criterion.Criterion, []any, error) {
	expr, args := call.Expr, call.Args
	if expr == "" {
		var ok bool
		if expr, args, ok = methods.Expression(args); !ok {
			return nil, nil, missing(call)
		}
	}
	return criterion.ParseMethodExpression(expr, args)
}

// conjunction rewrites a disjunction of clauses as a conjunction; the
// find-or-create family always matches on every clause.
func conjunction(c criterion.Criterion) criterion.Criterion {
	if cc, ok := c.(*criterion.CompositeCriterion); ok && cc.Operator() == criterion.OpOr {
		return criterion.And(cc.Criteria()...)
	}
	return c
}

// equalitiesOnly rejects every clause of c that is not an equality; the
// find-or-create family seeds new entities from the clause values.
func equalitiesOnly(call handler.Call, c criterion.Criterion) error {
	var err error
	criterion.Walk(c, func(n criterion.Criterion) bool {
		if b, ok := n.(criterion.BinaryExpression); ok && b.Operator() != criterion.OpEqual {
			err = missing(call)
			return false
		}
		return true
	})
	return err
}

// queryOptions reads an optional single trailing options map.
func queryOptions(call handler.Call, rest []any) (storagemodels.QueryOptions, error) {
	switch len(rest) {
	case 0:
		return storagemodels.QueryOptions{}, nil
	case 1:
		m, ok := methods.Map(rest[0])
		if !ok {
			return storagemodels.QueryOptions{}, missing(call)
		}
		return storagemodels.ParseQueryOptions(m)
	}
	return storagemodels.QueryOptions{}, missing(call)
}

func (h *Handler) queryAll(call handler.Call, c criterion.Criterion, opts storagemodels.QueryOptions) ([]any, error) {
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	items, err := ds.QueryMatchingWith(c, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Sorted() {
		items = sortByIdentity(call.Class, items)
	}
	return items, nil
}

func (h *Handler) queryFirst(call handler.Call, c criterion.Criterion, opts storagemodels.QueryOptions) (any, error) {
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	items, err := ds.QueryMatchingWith(c, opts)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

func (h *Handler) find(_ context.Context, call handler.Call) (any, error) {
	sel, err := parseSelection(call, shapeFilter|shapeCriterion|shapeExample)
	if err != nil {
		return nil, err
	}
	return h.queryFirst(call, sel.crit, sel.opts)
}

func (h *Handler) findWhere(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 1 || !isMap(call.Args[0]) {
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	m, _ := methods.Map(call.Args[0])
	return ds.First(m)
}

func (h *Handler) findBy(_ context.Context, call handler.Call) (any, error) {
	c, rest, err := expression(call)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, missing(call)
	}
	return h.queryFirst(call, c, storagemodels.QueryOptions{})
}

func (h *Handler) findAll(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) == 0 {
		return h.queryAll(call, criterion.And(), storagemodels.QueryOptions{})
	}
	sel, err := parseSelection(call, shapeFilter|shapeCriterion|shapeExample|shapeOptionsBuilder)
	if err != nil {
		return nil, err
	}
	return h.queryAll(call, sel.crit, sel.opts)
}

func (h *Handler) findAllWhere(_ context.Context, call handler.Call) (any, error) {
	if !isMapArg(call.Args) {
		return nil, missing(call)
	}
	sel, err := parseSelection(call, shapeFilter)
	if err != nil {
		return nil, err
	}
	return h.queryAll(call, sel.crit, sel.opts)
}

func isMapArg(args []any) bool {
	return len(args) > 0 && isMap(args[0])
}

func (h *Handler) findAllBy(_ context.Context, call handler.Call) (any, error) {
	c, rest, err := expression(call)
	if err != nil {
		return nil, err
	}
	opts, err := queryOptions(call, rest)
	if err != nil {
		return nil, err
	}
	return h.queryAll(call, c, opts)
}

func (h *Handler) withCriteria(_ context.Context, call handler.Call) (any, error) {
	sel, err := parseSelection(call, shapeCriterion|shapeOptionsBuilder)
	if err != nil {
		return nil, err
	}
	return h.queryAll(call, sel.crit, sel.opts)
}

func (h *Handler) findOrCreateBy(_ context.Context, call handler.Call) (any, error) {
	c, rest, err := expression(call)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, missing(call)
	}
	if err := equalitiesOnly(call, c); err != nil {
		return nil, err
	}
	c = conjunction(c)
	found, err := h.queryFirst(call, c, storagemodels.QueryOptions{})
	if err != nil || found != nil {
		return found, err
	}
	return methods.NewEntity(call.Class, criterion.Properties(c))
}

func (h *Handler) findOrCreateWhere(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 1 || !isMap(call.Args[0]) {
		return nil, missing(call)
	}
	m, _ := methods.Map(call.Args[0])
	found, err := h.queryFirst(call, filterCriterion(m), storagemodels.QueryOptions{})
	if err != nil || found != nil {
		return found, err
	}
	return methods.NewEntity(call.Class, m)
}

func (h *Handler) findOrSaveBy(ctx context.Context, call handler.Call) (any, error) {
	c, rest, err := expression(call)
	if err != nil {
		return nil, err
	}
	if len(rest) > 1 || (len(rest) == 1 && !isMap(rest[0])) {
		return nil, missing(call)
	}
	if err := equalitiesOnly(call, c); err != nil {
		return nil, err
	}
	c = conjunction(c)
	return h.findOrSave(ctx, call, c, criterion.Properties(c), rest)
}

func (h *Handler) findOrSaveWhere(ctx context.Context, call handler.Call) (any, error) {
	args := call.Args
	if len(args) == 0 || len(args) > 2 || !isMap(args[0]) || (len(args) == 2 && !isMap(args[1])) {
		return nil, missing(call)
	}
	m, _ := methods.Map(args[0])
	return h.findOrSave(ctx, call, filterCriterion(m), m, args[1:])
}

// findOrSave returns the first match of c, or saves a new entity built
// from props with the save options in saveArgs.
func (h *Handler) findOrSave(ctx context.Context, call handler.Call, c criterion.Criterion, props map[string]any, saveArgs []any) (any, error) {
	found, err := h.queryFirst(call, c, storagemodels.QueryOptions{})
	if err != nil || found != nil {
		return found, err
	}
	e, err := methods.NewEntity(call.Class, props)
	if err != nil {
		return nil, err
	}
	p, err := h.persister(call)
	if err != nil {
		return nil, err
	}
	return h.saver.Save(ctx, p, e, saveArgs...)
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"
	"fmt"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/handler"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/storagemodels"
)

func (h *Handler) create(_ context.Context, call handler.Call) (any, error) {
	switch len(call.Args) {
	case 0:
		return call.Class.New(), nil
	case 1:
		props, ok := methods.Map(call.Args[0])
		if !ok {
			return nil, missing(call)
		}
		return methods.NewEntity(call.Class, props)
	}
	return nil, missing(call)
}

func (h *Handler) fetch(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 1 {
		return nil, missing(call)
	}
	id, ok := methods.ID(call.Args[0])
	if !ok {
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return ds.Fetch(id), nil
}

func (h *Handler) exists(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 1 {
		return nil, missing(call)
	}
	id, ok := methods.ID(call.Args[0])
	if !ok {
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return ds.Contains(id), nil
}

func (h *Handler) fetchAll(_ context.Context, call handler.Call) (any, error) {
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	if len(call.Args) == 0 {
		return ds.List(), nil
	}
	ids, ok := methods.IDs(call.Args)
	if !ok {
		return nil, missing(call)
	}
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		if e := ds.Fetch(id); e != nil {
			items = append(items, e)
		}
	}
	return sortByIdentity(call.Class, items), nil
}

func (h *Handler) count(_ context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 0 {
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return ds.Size(), nil
}

func (h *Handler) countBy(_ context.Context, call handler.Call) (any, error) {
	c, rest, err := expression(call)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	items, err := ds.QueryMatching(c)
	if err != nil {
		return nil, err
	}
	return len(items), nil
}

func (h *Handler) list(_ context.Context, call handler.Call) (any, error) {
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
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return ds.ListWith(opts)
}

func (h *Handler) listOrderBy(_ context.Context, call handler.Call) (any, error) {
	expr, args := call.Expr, call.Args
	if expr == "" {
		var ok bool
		if expr, args, ok = methods.Expression(args); !ok {
			return nil, missing(call)
		}
	}
	property := criterion.Uncapitalize(expr)
	if _, ok := call.Class.Property(property); !ok {
		return nil, errors.NewInvalidArgumentError(property,
			fmt.Sprintf("property %s doesn't exist for '%s'", property, call.Class.Name()))
	}

	var m map[string]any
	switch len(args) {
	case 0:
	case 1:
		var ok bool
		if m, ok = methods.Map(args[0]); !ok {
			return nil, missing(call)
		}
	default:
		return nil, missing(call)
	}
	opts, err := storagemodels.ParseQueryOptions(m)
	if err != nil {
		return nil, err
	}
	opts.Sort = property
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	return ds.ListWith(opts)
}

func (h *Handler) first(ctx context.Context, call handler.Call) (any, error) {
	return h.edge(ctx, call, storagemodels.OrderAsc)
}

func (h *Handler) last(ctx context.Context, call handler.Call) (any, error) {
	return h.edge(ctx, call, storagemodels.OrderDesc)
}

// edge returns the first entity when ordered by a property in order.
func (h *Handler) edge(_ context.Context, call handler.Call, order string) (any, error) {
	opts := storagemodels.QueryOptions{Sort: call.Class.Identity().Name(), Order: order, Max: 1}
	switch len(call.Args) {
	case 0:
	case 1:
		switch arg := call.Args[0].(type) {
		case string:
			opts.Sort = arg
		case map[string]any:
			parsed, err := storagemodels.ParseQueryOptions(arg)
			if err != nil {
				return nil, err
			}
			if parsed.Sorted() {
				opts.Sort = parsed.Sort
			}
			opts.IgnoreCase = parsed.IgnoreCase
		default:
			return nil, missing(call)
		}
	default:
		return nil, missing(call)
	}
	ds, err := h.dataset(call)
	if err != nil {
		return nil, err
	}
	items, err := ds.ListWith(opts)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"

	"github.com/suparena/domainstore/handler"
	"github.com/suparena/domainstore/methods"
)

func (h *Handler) save(ctx context.Context, call handler.Call) (any, error) {
	p, err := h.persister(call)
	if err != nil {
		return nil, err
	}
	return h.saver.Save(ctx, p, call.Target, call.Args...)
}

func (h *Handler) delete(ctx context.Context, call handler.Call) (any, error) {
	if len(call.Args) != 0 {
		return nil, missing(call)
	}
	p, err := h.persister(call)
	if err != nil {
		return nil, err
	}
	return methods.DeleteEntity(ctx, p, call.Target)
}

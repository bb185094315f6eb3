/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handler

import (
	"context"
	"reflect"

	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/methods"
)

// Handler executes catalog methods for the domain classes of one mapping.
type Handler interface {
	// Mapping names the persistence mapping, e.g. "memory".
	Mapping() string
	// Signatures lists the catalog signatures the handler implements.
	Signatures() []methods.Signature
	// InvokeInstance calls method on the entity target.
	InvokeInstance(ctx context.Context, target any, method string, args ...any) (any, error)
	// InvokeStatic calls method on the domain class of typ.
	InvokeStatic(ctx context.Context, typ reflect.Type, method string, args ...any) (any, error)
}

// Call is one resolved invocation passed to a Method.
type Call struct {
	// Name is the method name as invoked, e.g. findAllByTitleLike.
	Name string
	// Base is the catalog method Name resolved to, e.g. findAllBy.
	Base string
	// Expr is the query expression of a dynamic name, e.g. TitleLike.
	Expr  string
	Class *entity.Class
	// Target is the receiver of instance methods; nil for static ones.
	Target any
	Args   []any
}

// Method implements one catalog method.
type Method func(ctx context.Context, call Call) (any, error)

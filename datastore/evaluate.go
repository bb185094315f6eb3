/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
)

// predicate reports whether an entity matches a compiled criterion.
type predicate func(e any) bool

func matchAll(any) bool { return true }

// compile resolves every property named by c against class and returns the
// predicate evaluating c. Unknown properties fail here, before any entity
// is visited.
func compile(class *entity.Class, c criterion.Criterion) (predicate, error) {
	switch n := c.(type) {
	case nil:
		return nil, errors.NewInvalidArgumentError("criterion", "must not be nil")
	case criterion.BinaryExpression:
		return compileBinary(class, n)
	case *criterion.CompositeCriterion:
		if n == nil {
			return nil, errors.NewInvalidArgumentError("criterion", "must not be nil")
		}
		children := n.Criteria()
		preds := make([]predicate, len(children))
		for i, child := range children {
			p, err := compile(class, child)
			if err != nil {
				return nil, err
			}
			preds[i] = p
		}
		if n.Operator() == criterion.OpOr {
			return func(e any) bool {
				for _, p := range preds {
					if p(e) {
						return true
					}
				}
				return false
			}, nil
		}
		return func(e any) bool {
			for _, p := range preds {
				if !p(e) {
					return false
				}
			}
			return true
		}, nil
	}
	return nil, errors.NewInvalidArgumentError("criterion", fmt.Sprintf("unsupported criterion %T", c))
}

func lookup(class *entity.Class, name string) (*entity.Property, error) {
	p, ok := class.Property(name)
	if !ok {
		return nil, errors.NewInvalidArgumentError(name, fmt.Sprintf("%s has no property named %q", class.Name(), name))
	}
	return p, nil
}

func compileBinary(class *entity.Class, b criterion.BinaryExpression) (predicate, error) {
	prop, err := lookup(class, b.PropertyName())
	if err != nil {
		return nil, err
	}
	value := b.Value()

	relational := func(accept func(int) bool) predicate {
		want := deref(value)
		return func(e any) bool {
			got := deref(prop.Value(e))
			if got == nil || want == nil {
				return false
			}
			c, ok := compare(got, want)
			return ok && accept(c)
		}
	}

	switch b.Operator() {
	case criterion.OpEqual:
		return func(e any) bool { return equal(prop.Value(e), value) }, nil
	case criterion.OpNotEqual:
		return func(e any) bool { return !equal(prop.Value(e), value) }, nil
	case criterion.OpGreaterThan:
		return relational(func(c int) bool { return c > 0 }), nil
	case criterion.OpGreaterThanOrEqual:
		return relational(func(c int) bool { return c >= 0 }), nil
	case criterion.OpLessThan:
		return relational(func(c int) bool { return c < 0 }), nil
	case criterion.OpLessThanOrEqual:
		return relational(func(c int) bool { return c <= 0 }), nil
	case criterion.OpIsNull:
		return func(e any) bool { return isNull(prop.Value(e)) }, nil
	case criterion.OpIsNotNull:
		return func(e any) bool { return !isNull(prop.Value(e)) }, nil
	case criterion.OpLike:
		pattern, ok := deref(value).(string)
		if !ok {
			return nil, errors.NewInvalidArgumentError(prop.Name(), fmt.Sprintf("like expects a string pattern, got %T", value))
		}
		re := likeRegexp(pattern)
		return func(e any) bool {
			s, ok := stringValue(prop.Value(e))
			return ok && re.MatchString(s)
		}, nil
	case criterion.OpIn:
		elems, ok := elements(value)
		if !ok {
			return nil, errors.NewInvalidArgumentError(prop.Name(), fmt.Sprintf("in expects a slice or array, got %T", value))
		}
		return func(e any) bool {
			got := prop.Value(e)
			return slices.ContainsFunc(elems, func(x any) bool { return equal(got, x) })
		}, nil
	}
	return nil, errors.NewInvalidArgumentError(prop.Name(), fmt.Sprintf("unsupported operator %s", b.Operator()))
}

// compileFilter turns a property map into a conjunction of equalities.
func compileFilter(class *entity.Class, filter map[string]any) (predicate, error) {
	if len(filter) == 0 {
		return matchAll, nil
	}
	criteria := make([]criterion.Criterion, 0, len(filter))
	for name, value := range filter {
		criteria = append(criteria, criterion.Eq(name, value))
	}
	return compile(class, criterion.And(criteria...))
}

// ExampleCriterion returns the conjunction of equalities over every
// non-zero property of example, identity included.
func ExampleCriterion(class *entity.Class, example any) (criterion.Criterion, error) {
	if err := class.Check(example); err != nil {
		return nil, err
	}
	var criteria []criterion.Criterion
	for _, p := range class.Properties() {
		v := p.Value(example)
		if !isZero(v) {
			criteria = append(criteria, criterion.Eq(p.Name(), v))
		}
	}
	return criterion.And(criteria...), nil
}

func stringValue(v any) (string, bool) {
	v = deref(v)
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func elements(v any) ([]any, bool) {
	v = deref(v)
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

var likeCache sync.Map // pattern -> *regexp.Regexp

// likeRegexp translates a SQL like pattern: % matches any run of
// characters, _ exactly one.
func likeRegexp(pattern string) *regexp.Regexp {
	if re, ok := likeCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(`.*`)
		case '_':
			sb.WriteString(`.`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)
	re := regexp.MustCompile(sb.String())
	actual, _ := likeCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp)
}

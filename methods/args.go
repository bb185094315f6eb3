/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/suparena/domainstore/criterion"
)

// ID normalises an identity argument. Any integer kind and decimal strings
// are accepted. Zero and negative values are accepted too; nothing is ever
// stored under them.
func ID(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	var id int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		id = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, false
		}
		id = int64(u)
	case reflect.String:
		n, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
		if err != nil {
			return 0, false
		}
		id = n
	default:
		return 0, false
	}
	return id, true
}

// IDs normalises the arguments of fetchAll: either a single slice or array
// of identities or the identities themselves. Elements that are not
// identities are reported through ok.
func IDs(args []any) ([]int64, bool) {
	values := args
	if len(args) == 1 {
		rv := reflect.ValueOf(args[0])
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			values = make([]any, rv.Len())
			for i := range values {
				values[i] = rv.Index(i).Interface()
			}
		}
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, ok := ID(v)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Map returns v as a string-keyed map.
func Map(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// TrailingMap splits a trailing options map off args.
func TrailingMap(args []any) ([]any, map[string]any) {
	if n := len(args); n > 0 {
		if m, ok := Map(args[n-1]); ok {
			return args[:n-1], m
		}
	}
	return args, nil
}

// Criterion returns v as a criterion, building it first when v is a
// predicate builder.
func Criterion(v any) (criterion.Criterion, bool) {
	switch c := v.(type) {
	case criterion.Criterion:
		return c, c != nil
	case criterion.Func:
		if c == nil {
			return nil, false
		}
		return criterion.Build(c), true
	}
	return nil, false
}

// IsBuilder reports whether v is a predicate builder.
func IsBuilder(v any) bool {
	_, ok := v.(criterion.Func)
	return ok
}

// Expression returns the string expression argument of the bare dynamic
// methods, such as findBy("TitleAndAuthor", ...).
func Expression(args []any) (string, []any, bool) {
	if len(args) == 0 {
		return "", args, false
	}
	s, ok := args[0].(string)
	if !ok || s == "" {
		return "", args, false
	}
	return s, args[1:], true
}

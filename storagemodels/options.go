/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/suparena/domainstore/errors"
)

// Recognised option keys.
const (
	KeyMax         = "max"
	KeyOffset      = "offset"
	KeySort        = "sort"
	KeyOrder       = "order"
	KeyIgnoreCase  = "ignoreCase"
	KeyValidate    = "validate"
	KeyFailOnError = "failOnError"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// QueryOptions controls paging and ordering of list results.
type QueryOptions struct {
	// Max limits the number of results; 0 means no limit.
	Max    int
	Offset int
	// Sort names the property to order by; empty keeps identity order.
	Sort       string
	Order      string
	IgnoreCase bool
}

// Sorted reports whether an explicit sort property was given.
func (o QueryOptions) Sorted() bool { return o.Sort != "" }

// Descending reports whether results are ordered high to low.
func (o QueryOptions) Descending() bool { return o.Order == OrderDesc }

// ParseQueryOptions reads query options from a string-keyed map. Unknown
// keys are ignored; a nil map yields the zero options.
func ParseQueryOptions(m map[string]any) (QueryOptions, error) {
	opts := QueryOptions{Order: OrderAsc}
	var err error
	if opts.Max, err = intOption(m, KeyMax); err != nil {
		return opts, err
	}
	if opts.Offset, err = intOption(m, KeyOffset); err != nil {
		return opts, err
	}
	if v, ok := m[KeySort]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return opts, errors.NewInvalidArgumentError(KeySort, fmt.Sprintf("expected a property name, got %T", v))
		}
		opts.Sort = s
	}
	if v, ok := m[KeyOrder]; ok && v != nil {
		s, _ := v.(string)
		switch strings.ToLower(s) {
		case OrderAsc:
			opts.Order = OrderAsc
		case OrderDesc:
			opts.Order = OrderDesc
		default:
			return opts, errors.NewInvalidArgumentError(KeyOrder, fmt.Sprintf("expected asc or desc, got %v", v))
		}
	}
	if opts.IgnoreCase, err = boolOption(m, KeyIgnoreCase, false); err != nil {
		return opts, err
	}
	return opts, nil
}

// SaveOptions controls the save path.
type SaveOptions struct {
	Validate    bool
	FailOnError bool
}

// ParseSaveOptions reads save options from m. Validate defaults to true and
// FailOnError to failOnError.
func ParseSaveOptions(m map[string]any, failOnError bool) (SaveOptions, error) {
	var opts SaveOptions
	var err error
	if opts.Validate, err = boolOption(m, KeyValidate, true); err != nil {
		return opts, err
	}
	if opts.FailOnError, err = boolOption(m, KeyFailOnError, failOnError); err != nil {
		return opts, err
	}
	return opts, nil
}

func intOption(m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	var n int64
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		n = rv.Int()
	case rv.CanUint():
		n = int64(rv.Uint())
	case rv.Kind() == reflect.String:
		parsed, err := strconv.ParseInt(rv.String(), 10, 64)
		if err != nil {
			return 0, errors.NewInvalidArgumentError(key, fmt.Sprintf("expected an integer, got %q", rv.String()))
		}
		n = parsed
	default:
		return 0, errors.NewInvalidArgumentError(key, fmt.Sprintf("expected an integer, got %T", v))
	}
	if n < 0 {
		return 0, errors.NewInvalidArgumentError(key, "must not be negative")
	}
	return int(n), nil
}

func boolOption(m map[string]any, key string, def bool) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def, errors.NewInvalidArgumentError(key, fmt.Sprintf("expected a boolean, got %q", b))
		}
		return parsed, nil
	}
	return def, errors.NewInvalidArgumentError(key, fmt.Sprintf("expected a boolean, got %T", v))
}

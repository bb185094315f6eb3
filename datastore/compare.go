/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"cmp"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

var timeType = reflect.TypeFor[time.Time]()

// deref follows pointers and interfaces. Nil pointers, maps, slices and
// interfaces are null and come back as nil.
func deref(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			v = rv.Elem().Interface()
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return nil
			}
			return v
		default:
			return v
		}
	}
	return nil
}

func isNull(v any) bool { return deref(v) == nil }

// isZero reports whether v is null or the zero value of its type.
func isZero(v any) bool {
	v = deref(v)
	return v == nil || reflect.ValueOf(v).IsZero()
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case strfmt.DateTime:
		return time.Time(t), true
	case strfmt.Date:
		return time.Time(t), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	return time.Time{}, false
}

// compare orders two non-null values of the same family: numbers of any
// width, strings, bools and times. ok is false when they cannot be ordered.
func compare(a, b any) (int, bool) {
	if ta, ok := asTime(a); ok {
		tb, ok := asTime(b)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case ra.CanInt() && rb.CanInt():
		return cmp.Compare(ra.Int(), rb.Int()), true
	case ra.CanUint() && rb.CanUint():
		return cmp.Compare(ra.Uint(), rb.Uint()), true
	case ra.CanInt() && rb.CanUint():
		if ra.Int() < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(ra.Int()), rb.Uint()), true
	case ra.CanUint() && rb.CanInt():
		if rb.Int() < 0 {
			return 1, true
		}
		return cmp.Compare(ra.Uint(), uint64(rb.Int())), true
	case isNumber(ra) && isNumber(rb):
		return cmp.Compare(toFloat(ra), toFloat(rb)), true
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return strings.Compare(ra.String(), rb.String()), true
	case ra.Kind() == reflect.Bool && rb.Kind() == reflect.Bool:
		return cmp.Compare(boolRank(ra.Bool()), boolRank(rb.Bool())), true
	}
	return 0, false
}

func isNumber(v reflect.Value) bool {
	return v.CanInt() || v.CanUint() || v.CanFloat()
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	}
	return v.Float()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// equal is value equality after dereferencing. Ordered values compare by
// value across widths, so int 3 equals int64 3.
func equal(a, b any) bool {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// sortCompare orders values for list sorting. Nulls sort first and values
// that cannot be ordered keep their relative position.
func sortCompare(a, b any, ignoreCase bool) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if ignoreCase {
		sa, okA := stringValue(a)
		sb, okB := stringValue(b)
		if okA && okB {
			return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
		}
	}
	c, _ := compare(a, b)
	return c
}

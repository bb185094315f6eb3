/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/domainstore/entity"
)

var timeType = reflect.TypeFor[time.Time]()

// encodeValue marshals one property value. Time-like named types such as
// strfmt.DateTime are stored as time.Time strings.
func encodeValue(v any) (types.AttributeValue, error) {
	switch t := v.(type) {
	case strfmt.DateTime:
		v = time.Time(t)
	case *strfmt.DateTime:
		if t != nil {
			v = time.Time(*t)
		}
	case strfmt.Date:
		v = time.Time(t)
	case *strfmt.Date:
		if t != nil {
			v = time.Time(*t)
		}
	}
	return attributevalue.Marshal(v)
}

// decodeValue unmarshals av into a value of type typ.
func decodeValue(av types.AttributeValue, typ reflect.Type) (any, error) {
	if _, null := av.(*types.AttributeValueMemberNULL); null {
		return nil, nil
	}

	base, ptr := typ, false
	if typ.Kind() == reflect.Pointer {
		base, ptr = typ.Elem(), true
	}

	var out reflect.Value
	if base != timeType && base.Kind() == reflect.Struct && base.ConvertibleTo(timeType) {
		var t time.Time
		if err := attributevalue.Unmarshal(av, &t); err != nil {
			return nil, err
		}
		out = reflect.ValueOf(t).Convert(base)
	} else {
		target := reflect.New(base)
		if err := attributevalue.Unmarshal(av, target.Interface()); err != nil {
			return nil, err
		}
		out = target.Elem()
	}

	if ptr {
		p := reflect.New(base)
		p.Elem().Set(out)
		return p.Interface(), nil
	}
	return out.Interface(), nil
}

// encodeEntity marshals every property of e, identity included.
func encodeEntity(class *entity.Class, e any) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(class.Properties())+3)
	for _, p := range class.Properties() {
		av, err := encodeValue(p.Value(e))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property %s: %w", p.Name(), err)
		}
		item[p.Name()] = av
	}
	return item, nil
}

// decodeEntity builds a new entity of class from item. Attributes that are
// not properties of the class are ignored.
func decodeEntity(class *entity.Class, item map[string]types.AttributeValue) (any, error) {
	e := class.New()
	for _, p := range class.Properties() {
		av, ok := item[p.Name()]
		if !ok {
			continue
		}
		v, err := decodeValue(av, p.Type())
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal property %s: %w", p.Name(), err)
		}
		if err := p.SetValue(e, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

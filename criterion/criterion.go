/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package criterion

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/domainstore/errors"
)

// Operator names a comparison or a boolean composition.
type Operator string

const (
	OpEqual              Operator = "EQUAL"
	OpNotEqual           Operator = "NOT_EQUAL"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThan           Operator = "LESS_THAN"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpLike               Operator = "LIKE"
	OpIn                 Operator = "IN"
	OpIsNull             Operator = "IS_NULL"
	OpIsNotNull          Operator = "IS_NOT_NULL"

	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

var symbols = map[Operator]string{
	OpEqual:              "=",
	OpNotEqual:           "!=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpLike:               "like",
	OpIn:                 "in",
	OpIsNull:             "is null",
	OpIsNotNull:          "is not null",
	OpAnd:                "AND",
	OpOr:                 "OR",
}

// String returns the operator as it appears in rendered criteria.
func (op Operator) String() string {
	if s, ok := symbols[op]; ok {
		return s
	}
	return string(op)
}

// Unary reports whether the operator ignores the expression value.
func (op Operator) Unary() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// Comparison reports whether op is a leaf comparison operator.
func (op Operator) Comparison() bool {
	_, ok := symbols[op]
	return ok && op != OpAnd && op != OpOr
}

// Criterion is a query predicate: either a BinaryExpression or a
// *CompositeCriterion. Values are immutable once built.
type Criterion interface {
	fmt.Stringer
	// Equal reports structural equality with another criterion.
	Equal(other Criterion) bool
	criterion()
}

// BinaryExpression compares one property against a literal value.
type BinaryExpression struct {
	propertyName string
	operator     Operator
	value        any
}

// NewBinary stores its arguments verbatim.
func NewBinary(propertyName string, op Operator, value any) BinaryExpression {
	return BinaryExpression{propertyName: propertyName, operator: op, value: value}
}

func (BinaryExpression) criterion() {}

func (b BinaryExpression) PropertyName() string { return b.propertyName }

func (b BinaryExpression) Operator() Operator { return b.operator }

func (b BinaryExpression) Value() any { return b.value }

func (b BinaryExpression) String() string {
	if b.operator.Unary() {
		return b.propertyName + " " + b.operator.String()
	}
	return fmt.Sprintf("%s %s %v", b.propertyName, b.operator, b.value)
}

func (b BinaryExpression) Equal(other Criterion) bool {
	o, ok := other.(BinaryExpression)
	if !ok {
		return false
	}
	return b.operator == o.operator &&
		b.propertyName == o.propertyName &&
		reflect.DeepEqual(b.value, o.value)
}

// CompositeCriterion joins child criteria with AND or OR. An empty AND is
// true and an empty OR is false.
type CompositeCriterion struct {
	operator Operator
	criteria []Criterion
}

// NewComposite copies criteria. An empty operator means AND; anything other
// than AND or OR is rejected.
func NewComposite(op Operator, criteria ...Criterion) (*CompositeCriterion, error) {
	if op == "" {
		op = OpAnd
	}
	if op != OpAnd && op != OpOr {
		return nil, errors.NewInvalidArgumentError("operator",
			fmt.Sprintf("invalid operator '%s'. Allowed operators are AND, OR", op))
	}
	children := make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if c == nil {
			return nil, errors.NewInvalidArgumentError("criteria", "nil criterion")
		}
		children = append(children, c)
	}
	return &CompositeCriterion{operator: op, criteria: children}, nil
}

func (*CompositeCriterion) criterion() {}

func (c *CompositeCriterion) Operator() Operator { return c.operator }

// Criteria returns a copy of the children.
func (c *CompositeCriterion) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// Len returns the number of children.
func (c *CompositeCriterion) Len() int { return len(c.criteria) }

func (c *CompositeCriterion) String() string {
	parts := make([]string, len(c.criteria))
	for i, child := range c.criteria {
		parts[i] = child.String()
	}
	return "(" + strings.Join(parts, " "+c.operator.String()+" ") + ")"
}

func (c *CompositeCriterion) Equal(other Criterion) bool {
	o, ok := other.(*CompositeCriterion)
	if !ok || o == nil {
		return false
	}
	if c.operator != o.operator || len(c.criteria) != len(o.criteria) {
		return false
	}
	for i := range c.criteria {
		if !c.criteria[i].Equal(o.criteria[i]) {
			return false
		}
	}
	return true
}

// Walk visits c and its descendants depth first. Returning false from fn
// stops descent below the current node.
func Walk(c Criterion, fn func(Criterion) bool) {
	if c == nil || !fn(c) {
		return
	}
	if cc, ok := c.(*CompositeCriterion); ok {
		for _, child := range cc.criteria {
			Walk(child, fn)
		}
	}
}

// Properties returns the property values named by the binary expressions of
// c, last one winning. Used to seed new entities from a find expression.
func Properties(c Criterion) map[string]any {
	props := make(map[string]any)
	Walk(c, func(n Criterion) bool {
		if b, ok := n.(BinaryExpression); ok {
			props[b.propertyName] = b.value
		}
		return true
	})
	return props
}

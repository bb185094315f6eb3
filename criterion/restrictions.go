/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package criterion

// Eq matches entities whose property equals value.
func Eq(property string, value any) BinaryExpression {
	return NewBinary(property, OpEqual, value)
}

// Ne matches entities whose property differs from value.
func Ne(property string, value any) BinaryExpression {
	return NewBinary(property, OpNotEqual, value)
}

func Gt(property string, value any) BinaryExpression {
	return NewBinary(property, OpGreaterThan, value)
}

func Ge(property string, value any) BinaryExpression {
	return NewBinary(property, OpGreaterThanOrEqual, value)
}

func Lt(property string, value any) BinaryExpression {
	return NewBinary(property, OpLessThan, value)
}

func Le(property string, value any) BinaryExpression {
	return NewBinary(property, OpLessThanOrEqual, value)
}

// Like matches string properties against a pattern where % matches any run
// of characters and _ matches exactly one.
func Like(property string, pattern string) BinaryExpression {
	return NewBinary(property, OpLike, pattern)
}

// In matches entities whose property equals one of the elements of values,
// which must be a slice or array.
func In(property string, values any) BinaryExpression {
	return NewBinary(property, OpIn, values)
}

func IsNull(property string) BinaryExpression {
	return NewBinary(property, OpIsNull, nil)
}

func IsNotNull(property string) BinaryExpression {
	return NewBinary(property, OpIsNotNull, nil)
}

// And joins criteria conjunctively. Nil criteria are skipped, as
// Builder.Add does.
func And(criteria ...Criterion) *CompositeCriterion {
	return &CompositeCriterion{operator: OpAnd, criteria: nonNil(criteria)}
}

// Or joins criteria disjunctively. Nil criteria are skipped.
func Or(criteria ...Criterion) *CompositeCriterion {
	return &CompositeCriterion{operator: OpOr, criteria: nonNil(criteria)}
}

func nonNil(criteria []Criterion) []Criterion {
	out := make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

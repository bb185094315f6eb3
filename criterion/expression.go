/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package criterion

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/suparena/domainstore/errors"
)

// Method-name joiners.
const (
	JoinAnd = "And"
	JoinOr  = "Or"
)

// suffixes are tried longest first so GreaterThanEquals wins over GreaterThan.
var suffixes = []struct {
	name string
	op   Operator
}{
	{"GreaterThanEquals", OpGreaterThanOrEqual},
	{"LessThanEquals", OpLessThanOrEqual},
	{"GreaterThan", OpGreaterThan},
	{"IsNotNull", OpIsNotNull},
	{"NotEqual", OpNotEqual},
	{"LessThan", OpLessThan},
	{"IsNull", OpIsNull},
	{"InList", OpIn},
	{"Equal", OpEqual},
	{"Like", OpLike},
}

// ParseMethodExpression turns the tail of a dynamic finder name, such as
// "TitleAndPagesGreaterThan" from findByTitleAndPagesGreaterThan, into a
// criterion. Each clause consumes one element of args except IsNull and
// IsNotNull. Unconsumed arguments are returned.
func ParseMethodExpression(expr string, args []any) (Criterion, []any, error) {
	if expr == "" {
		return nil, args, errors.NewInvalidArgumentError("expression", "empty method expression")
	}
	parts, join, err := splitClauses(expr)
	if err != nil {
		return nil, args, err
	}

	clauses := make([]Criterion, 0, len(parts))
	rest := args
	for _, part := range parts {
		op := OpEqual
		name := part
		for _, s := range suffixes {
			if strings.HasSuffix(part, s.name) && len(part) > len(s.name) {
				op = s.op
				name = strings.TrimSuffix(part, s.name)
				break
			}
		}
		property := Uncapitalize(name)
		if property == "" {
			return nil, args, errors.NewInvalidArgumentError("expression",
				fmt.Sprintf("clause %q names no property", part))
		}
		if op.Unary() {
			clauses = append(clauses, NewBinary(property, op, nil))
			continue
		}
		if len(rest) == 0 {
			return nil, args, errors.NewInvalidArgumentError("expression",
				fmt.Sprintf("missing argument for clause %q of %q", part, expr))
		}
		value := rest[0]
		rest = rest[1:]
		if op == OpLike {
			s, ok := value.(string)
			if !ok {
				return nil, args, errors.NewInvalidArgumentError(property, "Like expects a string pattern")
			}
			value = s
		}
		clauses = append(clauses, NewBinary(property, op, value))
	}

	if len(clauses) == 1 {
		return clauses[0], rest, nil
	}
	if join == JoinOr {
		return Or(clauses...), rest, nil
	}
	return And(clauses...), rest, nil
}

// splitClauses splits on And/Or boundaries: the joiner must not start the
// expression and must be followed by an upper case letter.
func splitClauses(expr string) ([]string, string, error) {
	var parts []string
	join := ""
	start := 0
	for i := 1; i < len(expr); i++ {
		for _, j := range []string{JoinAnd, JoinOr} {
			if !strings.HasPrefix(expr[i:], j) {
				continue
			}
			next := i + len(j)
			if next >= len(expr) || !isUpper(expr[next:]) {
				continue
			}
			if join != "" && join != j {
				return nil, "", errors.NewInvalidArgumentError("expression",
					fmt.Sprintf("cannot mix And and Or in %q", expr))
			}
			join = j
			parts = append(parts, expr[start:i])
			start = next
			i = next - 1
			break
		}
	}
	parts = append(parts, expr[start:])
	return parts, join, nil
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// Uncapitalize lower-cases the first letter unless the first two letters are
// both upper case, so "Title" becomes "title" and "ISBN" stays "ISBN".
func Uncapitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if len(s) > size {
		r2, _ := utf8.DecodeRuneInString(s[size:])
		if unicode.IsUpper(r) && unicode.IsUpper(r2) {
			return s
		}
	}
	return string(unicode.ToLower(r)) + s[size:]
}

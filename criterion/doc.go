// Package criterion models query predicates over domain entities.
//
// A Criterion is either a BinaryExpression, comparing one property with a
// literal value, or a CompositeCriterion joining child criteria with AND or
// OR. Criteria are built with the restriction helpers (Eq, Gt, Like, In, ...),
// with the Builder used by predicate functions, or parsed from dynamic finder
// names such as findByTitleAndPagesGreaterThan.
//
// Criteria are immutable and can be shared between goroutines. Evaluation
// against entities lives in the datastore package.
package criterion

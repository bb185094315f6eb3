/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package criterion

// Builder collects clauses inside a predicate function such as
//
//	criterion.Build(func(b *criterion.Builder) {
//	    b.Eq("author", "Le Guin")
//	    b.Or(func(b *criterion.Builder) {
//	        b.Gt("pages", 300)
//	        b.IsNull("isbn")
//	    })
//	})
type Builder struct {
	clauses []Criterion
}

// Func is the predicate-builder shape accepted by find-family methods.
type Func = func(*Builder)

// Build runs fn against a fresh Builder and returns the conjunction of the
// clauses it added.
func Build(fn Func) Criterion {
	b := &Builder{}
	if fn != nil {
		fn(b)
	}
	if len(b.clauses) == 1 {
		return b.clauses[0]
	}
	return And(b.clauses...)
}

func (b *Builder) add(c Criterion) *Builder {
	b.clauses = append(b.clauses, c)
	return b
}

// Add appends a prebuilt criterion.
func (b *Builder) Add(c Criterion) *Builder {
	if c == nil {
		return b
	}
	return b.add(c)
}

func (b *Builder) Eq(property string, value any) *Builder { return b.add(Eq(property, value)) }

func (b *Builder) Ne(property string, value any) *Builder { return b.add(Ne(property, value)) }

func (b *Builder) Gt(property string, value any) *Builder { return b.add(Gt(property, value)) }

func (b *Builder) Ge(property string, value any) *Builder { return b.add(Ge(property, value)) }

func (b *Builder) Lt(property string, value any) *Builder { return b.add(Lt(property, value)) }

func (b *Builder) Le(property string, value any) *Builder { return b.add(Le(property, value)) }

func (b *Builder) Like(property, pattern string) *Builder { return b.add(Like(property, pattern)) }

func (b *Builder) In(property string, values any) *Builder { return b.add(In(property, values)) }

func (b *Builder) IsNull(property string) *Builder { return b.add(IsNull(property)) }

func (b *Builder) IsNotNull(property string) *Builder { return b.add(IsNotNull(property)) }

// And nests a conjunction built by fn.
func (b *Builder) And(fn Func) *Builder {
	nested := &Builder{}
	fn(nested)
	return b.add(And(nested.clauses...))
}

// Or nests a disjunction built by fn.
func (b *Builder) Or(fn Func) *Builder {
	nested := &Builder{}
	fn(nested)
	return b.add(Or(nested.clauses...))
}

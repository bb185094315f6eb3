/*
Package handler dispatches persistent domain methods to the handler of a
mapping.

A Handler owns two method tables, one for instance methods such as save and
delete and one for static methods such as fetch and findAll. Static names
starting with a dynamic prefix (findBy, findAllBy, countBy, listOrderBy,
findOrCreateBy, findOrSaveBy) resolve to their base method; the remainder of
the name is passed to the method as Call.Expr.

Usage:

	reg := handler.NewRegistry("")
	_ = reg.Register(memory.New(classes))

	h, _ := reg.Resolve("") // memory
	book, err := h.InvokeStatic(ctx, reflect.TypeFor[Book](), "findByTitle", "Dune")

Dispatch errors:

  - UndefinedMethodError when a name is in neither table
  - NotDomainError when the target type is not a registered class
  - UnsupportedOperationError when the mapping knows the method but does not
    implement it
*/
package handler

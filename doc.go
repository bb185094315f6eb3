/*
Package domainstore is an in-memory domain datastore with a criteria query
engine, fronted by a fixed catalog of persistent methods.

Domain classes are described explicitly with entity.Define and dispatched to
a handler mapping: "memory" holds entities in concurrent per-class datasets,
"dynamodb" stores them in a single DynamoDB table, and "default" rejects every
method as unsupported.

Basic Usage:

	books := entity.Define[Book]("Book").
		Identity("id", func(b *Book) int64 { return b.ID }, func(b *Book, id int64) { b.ID = id })
	entity.Field(books, "title", func(b *Book) string { return b.Title }, func(b *Book, v string) { b.Title = v })
	entity.Field(books, "isbn", func(b *Book) string { return b.ISBN }, func(b *Book, v string) { b.ISBN = v }, entity.Unique())

	store, _ := domainstore.New(ctx, cfg, domainstore.WithClasses(books.MustBuild()))
	repo := domainstore.MustFor[Book](store)

	repo.Save(ctx, &Book{Title: "Dune", ISBN: "0441013597"})
	found, _ := repo.FindAllBy(ctx, "TitleLike", "Du%")

Every method is also reachable by name through Store.InvokeStatic and
Store.InvokeInstance, including dynamic finders such as
findAllByTitleLikeAndPagesGreaterThan.
*/
package domainstore

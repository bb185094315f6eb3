/*
Package datastore is the in-memory storage layer.

A Datastore owns one Dataset per entity class, created lazily on first use.
A Dataset is a concurrent identity-keyed map with an atomic identity
sequence, a criterion evaluator and result ordering:

	store := datastore.New(datastore.DefaultName)
	books, _ := store.Dataset(bookClass)

	books.Save(&Book{Title: "Dune"})          // assigned identity 1
	hits, err := books.QueryMatching(criterion.Or(
	    criterion.Eq("author", "Herbert"),
	    criterion.Gt("pages", 400),
	))

Results are ordered by ascending identity. Relational operators use natural
ordering of numbers, strings, bools and times (strfmt.DateTime and
strfmt.Date included); values that cannot be ordered never match.

Datasets do not validate entities or enforce uniqueness: that is the job of
the save path in the methods package. Typed[T] wraps a Dataset in the
generic DataStore[T] interface also implemented by the DynamoDB store.
*/
package datastore

/*
Package ddb implements the dynamodb mapping over a single DynamoDB table.

The mapping supports save, delete, create, fetch, exists, fetchAll, count and
list. The finders need a query engine the table does not offer and fail with
an UnsupportedOperationError:

	h, _ := ddb.New(client, "domain", classes)
	_, err := h.InvokeStatic(ctx, reflect.TypeFor[Book](), "findAllByTitle", "Dune")
	errors.IsUnsupported(err) // true

Identities are allocated by a sequence local to the process; see
datastore/ddb.Table.
*/
package ddb

/*
Package ddb stores domain entities in DynamoDB.

A Table holds the entities of one class in a single-table layout. Each entity
is one item whose key attributes are expanded from templates:

	PK = "{class}#{id}"   // becomes "Book#12"
	SK = "{class}#{id}"

Every property is marshalled into its own attribute with attributevalue,
next to an EntityType attribute naming the class so several classes can
share a table. Listing is a paginated Scan filtered on EntityType:

	books, _ := ddb.NewTable(client, "domain", bookClass)
	all, err := books.List(ctx,
	    storagemodels.WithPageSize(25),
	    storagemodels.WithProgressHandler(func(p storagemodels.ScanProgress) {
	        log.Printf("Processed %d items", p.ItemsProcessed)
	    }),
	)

NewClient builds a *dynamodb.Client from static credentials; any value
implementing API can be used instead, such as the fake in datastore/mock.
*/
package ddb

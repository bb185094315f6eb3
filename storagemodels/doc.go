/*
Package storagemodels defines the option types shared by the stores and the
persistent methods.

QueryOptions:
Paging and ordering parsed from the trailing map argument of list-style
methods:

	opts, err := storagemodels.ParseQueryOptions(map[string]any{
	    "max":    10,
	    "offset": 20,
	    "sort":   "title",
	    "order":  "desc",
	})

SaveOptions:
Validation policy of save, parsed with ParseSaveOptions. validate defaults to
true, failOnError to the configured default.

ScanOptions:
Configuration for paginated DynamoDB scans:

	opts := []ScanOption{
	    WithPageSize(25),
	    WithProgressHandler(progressFunc),
	}
*/
package storagemodels

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"context"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/datastore"
	"github.com/suparena/domainstore/entity"
)

// DatasetPersister adapts an in-memory dataset to Persister.
func DatasetPersister(ds *datastore.Dataset) Persister {
	return datasetPersister{ds}
}

type datasetPersister struct {
	ds *datastore.Dataset
}

func (p datasetPersister) Class() *entity.Class { return p.ds.Class() }

func (p datasetPersister) Save(_ context.Context, e any) (any, error) { return p.ds.Save(e) }

func (p datasetPersister) Remove(_ context.Context, e any) (any, error) { return p.ds.Remove(e), nil }

func (p datasetPersister) Fetch(_ context.Context, id int64) (any, error) { return p.ds.Fetch(id), nil }

func (p datasetPersister) Query(_ context.Context, property string, value any) ([]any, error) {
	return p.ds.QueryMatching(criterion.Eq(property, value))
}

func (p datasetPersister) Exclusive(fn func() error) error { return p.ds.Exclusive(fn) }

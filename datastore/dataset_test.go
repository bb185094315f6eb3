/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/datastore"
	"github.com/suparena/domainstore/datastore/testmodels"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/storagemodels"
)

func newPeople(t *testing.T) *datastore.Dataset {
	t.Helper()
	ds, err := datastore.New("test").Dataset(testmodels.PersonClass)
	require.NoError(t, err)
	return ds
}

func ids(items []any) []int64 {
	out := make([]int64, 0, len(items))
	for _, e := range items {
		switch v := e.(type) {
		case *testmodels.Person:
			out = append(out, v.ID)
		case *testmodels.Book:
			out = append(out, v.ID)
		}
	}
	return out
}

func TestSaveAssignsIdentity(t *testing.T) {
	ds := newPeople(t)

	for i := int64(1); i <= 3; i++ {
		p := &testmodels.Person{Name: "p"}
		saved, err := ds.Save(p)
		require.NoError(t, err)
		assert.Same(t, p, saved)
		assert.Equal(t, i, p.ID)
	}
	assert.Equal(t, 3, ds.Size())
	assert.Equal(t, int64(3), ds.Sequence())
}

func TestSaveUpdateInPlace(t *testing.T) {
	ds := newPeople(t)
	p := &testmodels.Person{Name: "Ada"}
	_, err := ds.Save(p)
	require.NoError(t, err)

	p.Name = "Ada Lovelace"
	_, err = ds.Save(p)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Size())
	got := ds.Fetch(p.ID).(*testmodels.Person)
	assert.Same(t, p, got)
	assert.Equal(t, "Ada Lovelace", got.Name)

	replacement := &testmodels.Person{ID: p.ID, Name: "Other"}
	_, err = ds.Save(replacement)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Size())
	assert.Same(t, replacement, ds.Fetch(p.ID))
}

func TestExplicitIdentityAdvancesSequence(t *testing.T) {
	ds := newPeople(t)
	_, err := ds.Save(&testmodels.Person{ID: 10})
	require.NoError(t, err)

	p := &testmodels.Person{}
	_, err = ds.Save(p)
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
}

func TestSaveRejectsForeignEntity(t *testing.T) {
	ds := newPeople(t)
	_, err := ds.Save(&testmodels.Book{})
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = ds.Save(nil)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, 0, ds.Size())
}

func TestListOrdering(t *testing.T) {
	ds := newPeople(t)
	people := make([]*testmodels.Person, 3)
	for i := range people {
		people[i] = &testmodels.Person{Name: "p"}
		_, err := ds.Save(people[i])
		require.NoError(t, err)
	}

	removed := ds.Remove(people[1])
	assert.Same(t, people[1], removed)

	_, err := ds.Save(&testmodels.Person{Name: "q"})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 4}, ids(ds.List()))
}

func TestRemoveMissing(t *testing.T) {
	ds := newPeople(t)
	_, err := ds.Save(&testmodels.Person{Name: "kept"})
	require.NoError(t, err)

	assert.Nil(t, ds.Remove(&testmodels.Person{Name: "never saved"}))
	assert.Nil(t, ds.Remove(&testmodels.Person{ID: 99}))
	assert.Nil(t, ds.Remove("not a person"))
	assert.Equal(t, 1, ds.Size())
}

func TestEmptyDataset(t *testing.T) {
	ds := newPeople(t)

	assert.NotNil(t, ds.List())
	assert.Empty(t, ds.List())

	got, err := ds.QueryMatching(criterion.Eq("name", "x"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	first, err := ds.First(map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Nil(t, first)

	_, err = ds.QueryMatching(criterion.Eq("nope", 1))
	assert.True(t, errors.IsInvalidArgument(err), "unknown properties fail even on empty datasets")
}

func seedBooks(t *testing.T) *datastore.Dataset {
	t.Helper()
	ds, err := datastore.New("test").Dataset(testmodels.BookClass)
	require.NoError(t, err)
	books := []*testmodels.Book{
		{Title: "Dune", Author: "Herbert", Pages: 412, ISBN: "978-0"},
		{Title: "Emma", Author: "Austen", Pages: 474},
		{Title: "Dracula", Author: "Stoker", Pages: 418, ISBN: "978-2"},
		{Title: "dubliners", Author: "Joyce", Pages: 152},
	}
	for _, b := range books {
		_, err := ds.Save(b)
		require.NoError(t, err)
	}
	return ds
}

func TestCompositeCriteria(t *testing.T) {
	ds := newPeople(t)
	for _, p := range []*testmodels.Person{{Name: "a", Age: 1}, {Name: "a", Age: 3}, {Name: "z", Age: 1}} {
		_, err := ds.Save(p)
		require.NoError(t, err)
	}

	and, err := ds.QueryMatching(criterion.And(criterion.Eq("name", "a"), criterion.Eq("age", 1)))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(and))

	or, err := ds.QueryMatching(criterion.Or(criterion.Eq("name", "a"), criterion.Eq("age", 1)))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(or))

	all, err := ds.QueryMatching(criterion.And())
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty AND matches everything")

	none, err := ds.QueryMatching(criterion.Or())
	require.NoError(t, err)
	assert.Empty(t, none, "empty OR matches nothing")
}

func TestOperators(t *testing.T) {
	ds := seedBooks(t)

	tests := []struct {
		name string
		c    criterion.Criterion
		want []int64
	}{
		{"equal", criterion.Eq("author", "Austen"), []int64{2}},
		{"equal across widths", criterion.Eq("pages", int64(412)), []int64{1}},
		{"not equal", criterion.Ne("author", "Austen"), []int64{1, 3, 4}},
		{"greater than", criterion.Gt("pages", 412), []int64{2, 3}},
		{"greater or equal", criterion.Ge("pages", 412.0), []int64{1, 2, 3}},
		{"less than", criterion.Lt("pages", uint(418)), []int64{1, 4}},
		{"less or equal", criterion.Le("pages", 418), []int64{1, 3, 4}},
		{"string ordering", criterion.Lt("title", "E"), []int64{1, 3}},
		{"like prefix", criterion.Like("title", "D%"), []int64{1, 3}},
		{"like single char", criterion.Like("title", "E_ma"), []int64{2}},
		{"like escapes regexp", criterion.Like("isbn", "978-."), nil},
		{"in", criterion.In("author", []string{"Joyce", "Herbert"}), []int64{1, 4}},
		{"in array", criterion.In("pages", [2]int{152, 474}), []int64{2, 4}},
		{"is null", criterion.IsNull("publishedAt"), []int64{1, 2, 3, 4}},
		{"unorderable never matches", criterion.Gt("title", 3), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.QueryMatching(tt.c)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestOperatorArgumentErrors(t *testing.T) {
	ds := seedBooks(t)

	_, err := ds.QueryMatching(criterion.NewBinary("title", criterion.OpLike, 5))
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = ds.QueryMatching(criterion.In("title", "Dune"))
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = ds.QueryMatching(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestTimeOrdering(t *testing.T) {
	ds, err := datastore.New("test").Dataset(testmodels.BookClass)
	require.NoError(t, err)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		when := strfmt.DateTime(base.AddDate(i, 0, 0))
		_, err := ds.Save(&testmodels.Book{Title: "t", PublishedAt: &when, Released: strfmt.Date(base.AddDate(0, i, 0))})
		require.NoError(t, err)
	}
	_, err = ds.Save(&testmodels.Book{Title: "unpublished"})
	require.NoError(t, err)

	got, err := ds.QueryMatching(criterion.Ge("publishedAt", strfmt.DateTime(base.AddDate(1, 0, 0))))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))

	got, err = ds.QueryMatching(criterion.Ge("released", base.AddDate(0, 1, 0)))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))

	got, err = ds.QueryMatching(criterion.IsNotNull("publishedAt"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))

	sorted, err := ds.ListWith(storagemodels.QueryOptions{Sort: "publishedAt", Order: storagemodels.OrderDesc})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1, 4}, ids(sorted))
}

func TestFilterAndFirst(t *testing.T) {
	ds := seedBooks(t)

	got, err := ds.Query(map[string]any{"author": "Stoker", "pages": 418})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))

	first, err := ds.First(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.(*testmodels.Book).ID)

	match, err := ds.FirstMatching(criterion.Like("title", "D%"))
	require.NoError(t, err)
	assert.Equal(t, "Dune", match.(*testmodels.Book).Title)

	_, err = ds.Query(map[string]any{"publisher": "x"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestQueryByExample(t *testing.T) {
	ds := seedBooks(t)

	got, err := ds.QueryByExample(&testmodels.Book{Author: "Herbert"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))

	got, err = ds.QueryByExample(&testmodels.Book{})
	require.NoError(t, err)
	assert.Len(t, got, 4, "an empty example matches everything")

	got, err = ds.QueryByExample(&testmodels.Book{ID: 2, Author: "Herbert"})
	require.NoError(t, err)
	assert.Empty(t, got, "identity is part of the example when set")

	first, err := ds.FirstByExample(&testmodels.Book{Pages: 152})
	require.NoError(t, err)
	assert.Equal(t, "dubliners", first.(*testmodels.Book).Title)

	_, err = ds.QueryByExample(&testmodels.Person{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestQueryOptions(t *testing.T) {
	ds := seedBooks(t)

	paged, err := ds.ListWith(storagemodels.QueryOptions{Offset: 1, Max: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(paged))

	beyond, err := ds.ListWith(storagemodels.QueryOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	byTitle, err := ds.ListWith(storagemodels.QueryOptions{Sort: "title"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2, 4}, ids(byTitle), "case-sensitive order puts lower case last")

	byTitle, err = ds.ListWith(storagemodels.QueryOptions{Sort: "title", IgnoreCase: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 1, 2}, ids(byTitle))

	// empty values sort first; equal values keep identity order
	byISBN, err := ds.ListWith(storagemodels.QueryOptions{Sort: "isbn"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(byISBN))

	filtered, err := ds.QueryMatchingWith(criterion.Gt("pages", 200),
		storagemodels.QueryOptions{Sort: "pages", Order: storagemodels.OrderDesc, Max: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(filtered))

	_, err = ds.ListWith(storagemodels.QueryOptions{Sort: "missing"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestConcurrentInserts(t *testing.T) {
	ds := newPeople(t)
	const workers, each = 8, 50

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < each; i++ {
				if _, err := ds.Save(&testmodels.Person{Name: "p"}); err != nil {
					return err
				}
				_ = ds.List()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*each, ds.Size())
	list := ids(ds.List())
	require.Len(t, list, workers*each)
	for i, id := range list {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestDatastoreLazyDataset(t *testing.T) {
	store := datastore.New("shared")
	assert.Equal(t, "shared", store.Name())

	got := make([]*datastore.Dataset, 16)
	var g errgroup.Group
	for i := range got {
		g.Go(func() error {
			ds, err := store.Dataset(testmodels.BookClass)
			got[i] = ds
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, ds := range got {
		assert.Same(t, got[0], ds)
	}

	_, err := store.Dataset(testmodels.PersonClass)
	require.NoError(t, err)
	classes := store.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "Book", classes[0].Name())
	assert.Equal(t, "Person", classes[1].Name())

	_, err = store.Dataset(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestTypedStore(t *testing.T) {
	ctx := context.Background()
	ds := seedBooks(t)

	books, err := datastore.Typed[testmodels.Book](ds)
	require.NoError(t, err)

	var _ datastore.DataStore[testmodels.Book] = books

	fetched, err := books.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", fetched.Title)

	missing, err := books.Fetch(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	saved, err := books.Save(ctx, &testmodels.Book{Title: "Ulysses"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.ID)

	hits, err := books.Query(ctx, criterion.Like("title", "U%"))
	require.NoError(t, err)
	require.Len(t, hits, 1)

	first, err := books.First(ctx, criterion.Eq("author", "Austen"))
	require.NoError(t, err)
	assert.Equal(t, "Emma", first.Title)

	removed, err := books.Remove(ctx, saved)
	require.NoError(t, err)
	assert.Same(t, saved, removed)

	n, err := books.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	all, err := books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = datastore.Typed[testmodels.Person](ds)
	assert.True(t, errors.IsInvalidArgument(err))
}

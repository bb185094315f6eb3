/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/datastore/testmodels"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/handler/memory"
	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/registry"
)

var (
	personType = reflect.TypeFor[testmodels.Person]()
	bookType   = reflect.TypeFor[testmodels.Book]()
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func newHandler(t *testing.T, opts ...memory.Option) *memory.Handler {
	t.Helper()
	classes := registry.NewClasses()
	classes.MustRegister(testmodels.BookClass, testmodels.PersonClass)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return memory.New(classes, append([]memory.Option{memory.WithLogger(logger)}, opts...)...)
}

// seed stores Ada(36), Bob(25), Cy(41) and Ada(20) under identities 1 to 4.
func seed(t *testing.T, h *memory.Handler) []*testmodels.Person {
	t.Helper()
	people := []*testmodels.Person{
		{Name: "Ada", Age: 36},
		{Name: "Bob", Age: 25},
		{Name: "Cy", Age: 41},
		{Name: "Ada", Age: 20},
	}
	for _, p := range people {
		_, err := h.InvokeInstance(context.Background(), p, methods.Save)
		require.NoError(t, err)
	}
	return people
}

func static(t *testing.T, h *memory.Handler, typ reflect.Type, method string, args ...any) any {
	t.Helper()
	got, err := h.InvokeStatic(context.Background(), typ, method, args...)
	require.NoError(t, err, method)
	return got
}

func ids(t *testing.T, result any) []int64 {
	t.Helper()
	items, ok := result.([]any)
	require.True(t, ok, "expected []any, got %T", result)
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

func idOf(t *testing.T, result any) int64 {
	t.Helper()
	switch v := result.(type) {
	case *testmodels.Person:
		return v.ID
	case *testmodels.Book:
		return v.ID
	case nil:
		return 0
	}
	t.Fatalf("unexpected result %T", result)
	return 0
}

func TestSaveAssignsSequentialIdentity(t *testing.T) {
	h := newHandler(t)
	people := seed(t, h)
	for i, p := range people {
		assert.Equal(t, int64(i+1), p.ID)
	}
	assert.Equal(t, 4, static(t, h, personType, methods.Count))
}

func TestUpdateIsIdempotent(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()
	p := &testmodels.Person{Name: "Ada"}
	for i := 0; i < 3; i++ {
		saved, err := h.InvokeInstance(ctx, p, methods.Save)
		require.NoError(t, err)
		assert.Same(t, p, saved)
	}
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, 1, static(t, h, personType, methods.Count))
}

func TestFetchRoundTrip(t *testing.T) {
	h := newHandler(t)
	people := seed(t, h)

	assert.Same(t, people[1], static(t, h, personType, methods.Fetch, 2))
	assert.Same(t, people[1], static(t, h, personType, methods.Fetch, int64(2)))
	assert.Same(t, people[1], static(t, h, personType, methods.Fetch, "2"))
	assert.Nil(t, static(t, h, personType, methods.Fetch, 99))
	assert.Equal(t, true, static(t, h, personType, methods.Exists, uint8(3)))
	assert.Equal(t, false, static(t, h, personType, methods.Exists, 0))

	_, err := h.InvokeStatic(context.Background(), personType, methods.Fetch, 1.5)
	assert.True(t, errors.IsMissingMethod(err))
	_, err = h.InvokeStatic(context.Background(), personType, methods.Fetch)
	assert.True(t, errors.IsMissingMethod(err))
}

func TestIdentityOrderAfterDelete(t *testing.T) {
	h := newHandler(t)
	people := seed(t, h)

	removed, err := h.InvokeInstance(context.Background(), people[1], methods.Delete)
	require.NoError(t, err)
	assert.Same(t, people[1], removed)

	assert.Equal(t, []int64{1, 3, 4}, ids(t, static(t, h, personType, methods.FindAll)))
	assert.Equal(t, []int64{1, 3, 4}, ids(t, static(t, h, personType, methods.List)))
	assert.Equal(t, []int64{1, 3, 4}, ids(t, static(t, h, personType, methods.FetchAll)))
	assert.Equal(t, []int64{1, 3, 4}, ids(t, static(t, h, personType, methods.FetchAll, 4, 2, 1, 3)))
	assert.Equal(t, []int64{1, 3}, ids(t, static(t, h, personType, methods.FetchAll, []int{3, 1})))
}

func TestDeleteMissing(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	removed, err := h.InvokeInstance(ctx, &testmodels.Person{ID: 7}, methods.Delete)
	require.NoError(t, err)
	assert.Nil(t, removed)

	_, err = h.InvokeInstance(ctx, &testmodels.Person{ID: 7}, methods.Delete, map[string]any{})
	assert.True(t, errors.IsMissingMethod(err))
}

func TestCompositeCriteria(t *testing.T) {
	h := newHandler(t)
	seed(t, h)

	and := criterion.And(criterion.Eq("name", "Ada"), criterion.Gt("age", 30))
	assert.Equal(t, []int64{1}, ids(t, static(t, h, personType, methods.FindAll, and)))

	or := criterion.Or(criterion.Eq("name", "Ada"), criterion.Gt("age", 30))
	assert.Equal(t, []int64{1, 3, 4}, ids(t, static(t, h, personType, methods.FindAll, or)))

	nested := criterion.Func(func(b *criterion.Builder) {
		b.Lt("age", 40)
		b.Or(func(b *criterion.Builder) {
			b.Eq("name", "Bob")
			b.Lt("age", 21)
		})
	})
	assert.Equal(t, []int64{2, 4}, ids(t, static(t, h, personType, methods.WithCriteria, nested)))
}

func TestEmptyDataset(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	assert.Empty(t, ids(t, static(t, h, personType, methods.FindAll)))
	assert.Equal(t, 0, static(t, h, personType, methods.Count))
	assert.Nil(t, static(t, h, personType, "findByName", "Ada"))
	assert.Nil(t, static(t, h, personType, methods.First))
	assert.Nil(t, static(t, h, personType, methods.Last))

	_, err := h.InvokeStatic(ctx, personType, methods.FindAll, criterion.Eq("nickname", "x"))
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, methods.List, map[string]any{"sort": "nickname"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestDynamicFinders(t *testing.T) {
	h := newHandler(t)
	seed(t, h)
	ctx := context.Background()

	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, "findByName", "Ada")))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, "findByNameAndAge", "Ada", 20)))
	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, "findByNameLike", "%d%")))
	assert.Equal(t, int64(2), idOf(t, static(t, h, personType, methods.FindBy, "Name", "Bob")))

	assert.Equal(t, []int64{1, 4}, ids(t, static(t, h, personType, "findAllByName", "Ada")))
	assert.Equal(t, []int64{2, 3}, ids(t, static(t, h, personType, "findAllByNameOrAge", "Bob", 41)))
	assert.Equal(t, []int64{3, 1}, ids(t, static(t, h, personType, "findAllByAgeGreaterThan", 30,
		map[string]any{"sort": "age", "order": "desc"})))
	assert.Equal(t, []int64{1, 2, 4}, ids(t, static(t, h, personType, "findAllByAgeLessThanEquals", 36)))
	assert.Equal(t, []int64{2, 3}, ids(t, static(t, h, personType, "findAllByNameInList", []string{"Bob", "Cy"})))
	assert.Empty(t, ids(t, static(t, h, personType, "findAllByEmailIsNotNull")))

	assert.Equal(t, 2, static(t, h, personType, "countByName", "Ada"))
	assert.Equal(t, 4, static(t, h, personType, "countByEmailIsNull"))

	assert.Equal(t, []int64{4, 2, 1, 3}, ids(t, static(t, h, personType, "listOrderByAge")))
	assert.Equal(t, []int64{3, 1, 2, 4}, ids(t, static(t, h, personType, "listOrderByAge", map[string]any{"order": "desc"})))

	_, err := h.InvokeStatic(ctx, personType, "countByName")
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, "findByName", "Ada", "Bob")
	assert.True(t, errors.IsMissingMethod(err))
	_, err = h.InvokeStatic(ctx, personType, "findByNickname", "x")
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, "listOrderByNickname")
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, "findByNameAndAgeOrEmail", "a", 1, "b")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestFirstAndLast(t *testing.T) {
	h := newHandler(t)
	seed(t, h)

	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, methods.First)))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, methods.Last)))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, methods.First, "age")))
	assert.Equal(t, int64(3), idOf(t, static(t, h, personType, methods.Last, "age")))
	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, methods.First, map[string]any{"sort": "name"})))
	assert.Equal(t, int64(3), idOf(t, static(t, h, personType, methods.Last, map[string]any{"sort": "name"})))

	_, err := h.InvokeStatic(context.Background(), personType, methods.First, 1)
	assert.True(t, errors.IsMissingMethod(err))
}

func TestFindShapes(t *testing.T) {
	h := newHandler(t)
	seed(t, h)
	ctx := context.Background()

	assert.Equal(t, int64(2), idOf(t, static(t, h, personType, methods.Find, map[string]any{"name": "Bob"})))
	assert.Equal(t, int64(3), idOf(t, static(t, h, personType, methods.Find, criterion.Eq("age", 41))))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, methods.Find,
		criterion.Func(func(b *criterion.Builder) { b.Lt("age", 21) }))))
	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, methods.Find, &testmodels.Person{Name: "Ada"})))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, methods.Find, &testmodels.Person{Name: "Ada"},
		map[string]any{"sort": "age"})))
	assert.Equal(t, int64(4), idOf(t, static(t, h, personType, methods.Find, map[string]any{"name": "Ada"},
		map[string]any{"sort": "age"})))
	assert.Equal(t, int64(2), idOf(t, static(t, h, personType, methods.FindWhere, map[string]any{"age": 25})))
	assert.Nil(t, static(t, h, personType, methods.FindWhere, map[string]any{"age": 99}))

	for _, args := range [][]any{
		nil,
		{"Ada"},
		{map[string]any{}, "sort"},
		{map[string]any{}, map[string]any{}, map[string]any{}},
		{&testmodels.Book{}},
	} {
		_, err := h.InvokeStatic(ctx, personType, methods.Find, args...)
		assert.True(t, errors.IsMissingMethod(err), "%v", args)
	}
	_, err := h.InvokeStatic(ctx, personType, methods.FindWhere, criterion.Eq("age", 1))
	assert.True(t, errors.IsMissingMethod(err))
}

func TestFindAllShapes(t *testing.T) {
	h := newHandler(t)
	seed(t, h)

	assert.Equal(t, []int64{1, 4}, ids(t, static(t, h, personType, methods.FindAll, map[string]any{"name": "Ada"})))
	assert.Equal(t, []int64{4}, ids(t, static(t, h, personType, methods.FindAll, criterion.Eq("name", "Ada"),
		map[string]any{"max": 1, "offset": 1})))
	assert.Equal(t, []int64{2, 1, 3}, ids(t, static(t, h, personType, methods.FindAll, map[string]any{"sort": "age"},
		criterion.Func(func(b *criterion.Builder) { b.Gt("age", 21) }))))
	assert.Equal(t, []int64{1, 4}, ids(t, static(t, h, personType, methods.FindAll, &testmodels.Person{Name: "Ada"})))
	assert.Equal(t, []int64{4, 1}, ids(t, static(t, h, personType, methods.FindAll, &testmodels.Person{Name: "Ada"},
		map[string]any{"sort": "age"})))
	assert.Equal(t, []int64{1, 4}, ids(t, static(t, h, personType, methods.FindAllWhere, map[string]any{"name": "Ada"})))
	assert.Equal(t, []int64{4}, ids(t, static(t, h, personType, methods.FindAllWhere, map[string]any{"name": "Ada"},
		map[string]any{"max": "1", "sort": "age"})))
	assert.Equal(t, []int64{3, 1}, ids(t, static(t, h, personType, methods.WithCriteria, criterion.Gt("age", 30),
		map[string]any{"sort": "age", "order": "desc"})))
	assert.Equal(t, []int64{1}, ids(t, static(t, h, personType, methods.WithCriteria, map[string]any{"max": 1},
		criterion.Func(func(b *criterion.Builder) { b.Eq("name", "Ada") }))))

	_, err := h.InvokeStatic(context.Background(), personType, methods.WithCriteria, map[string]any{"name": "Ada"})
	assert.True(t, errors.IsMissingMethod(err))
	_, err = h.InvokeStatic(context.Background(), personType, methods.FindAllWhere, criterion.Eq("name", "Ada"))
	assert.True(t, errors.IsMissingMethod(err))
}

func TestCreate(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	blank, ok := static(t, h, personType, methods.Create).(*testmodels.Person)
	require.True(t, ok)
	assert.Zero(t, *blank)

	zed, ok := static(t, h, personType, methods.Create, map[string]any{"name": "Zed", "age": int64(5)}).(*testmodels.Person)
	require.True(t, ok)
	assert.Equal(t, "Zed", zed.Name)
	assert.Equal(t, 5, zed.Age)
	assert.Zero(t, zed.ID)
	assert.Equal(t, 0, static(t, h, personType, methods.Count))

	_, err := h.InvokeStatic(ctx, personType, methods.Create, map[string]any{"nickname": "z"})
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, methods.Create, map[string]any{"age": "five"})
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = h.InvokeStatic(ctx, personType, methods.Create, "Zed")
	assert.True(t, errors.IsMissingMethod(err))
}

func TestFindOrCreate(t *testing.T) {
	h := newHandler(t)
	seed(t, h)

	assert.Equal(t, int64(1), idOf(t, static(t, h, personType, "findOrCreateByName", "Ada")))

	dee, ok := static(t, h, personType, "findOrCreateByNameAndAge", "Dee", 50).(*testmodels.Person)
	require.True(t, ok)
	assert.Equal(t, testmodels.Person{Name: "Dee", Age: 50}, *dee)

	assert.Equal(t, int64(2), idOf(t, static(t, h, personType, methods.FindOrCreateWhere, map[string]any{"name": "Bob"})))
	eve, ok := static(t, h, personType, methods.FindOrCreateWhere, map[string]any{"name": "Eve"}).(*testmodels.Person)
	require.True(t, ok)
	assert.Zero(t, eve.ID)

	assert.Equal(t, 4, static(t, h, personType, methods.Count))
}

func TestFindOrSave(t *testing.T) {
	h := newHandler(t)
	seed(t, h)
	ctx := context.Background()

	assert.Equal(t, int64(3), idOf(t, static(t, h, personType, "findOrSaveByName", "Cy")))
	assert.Equal(t, int64(5), idOf(t, static(t, h, personType, "findOrSaveByName", "Eve")))
	assert.Equal(t, int64(6), idOf(t, static(t, h, personType, methods.FindOrSaveWhere, map[string]any{"name": "Fay", "age": 30})))
	assert.Equal(t, int64(6), idOf(t, static(t, h, personType, "findOrSaveByNameAndAge", "Fay", 30)))
	assert.Equal(t, 6, static(t, h, personType, methods.Count))

	// A book without a title fails validation.
	assert.Nil(t, static(t, h, bookType, "findOrSaveByIsbn", "X"))
	_, err := h.InvokeStatic(ctx, bookType, "findOrSaveByIsbn", "X", map[string]any{"failOnError": true})
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 0, static(t, h, bookType, methods.Count))

	_, err = h.InvokeStatic(ctx, personType, "findOrSaveByName", "Gus", "extra")
	assert.True(t, errors.IsMissingMethod(err))
}

func TestFindOrCreateEqualitiesOnly(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	for _, method := range []string{
		"findOrCreateByPagesGreaterThan",
		"findOrSaveByPagesGreaterThan",
		"findOrCreateByTitleAndPagesLessThan",
		"findOrSaveByTitleLike",
	} {
		args := []any{"Dune", 100}
		if strings.HasSuffix(method, "GreaterThan") {
			args = []any{100}
		} else if strings.HasSuffix(method, "Like") {
			args = []any{"Du%"}
		}
		got, err := h.InvokeStatic(ctx, bookType, method, args...)
		require.Error(t, err, method)
		assert.True(t, errors.IsMissingMethod(err), method)
		assert.Nil(t, got, method)
	}
	assert.Equal(t, 0, static(t, h, bookType, methods.Count))

	b, ok := static(t, h, bookType, "findOrCreateByTitleOrPages", "Dune", 100).(*testmodels.Book)
	require.True(t, ok)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 100, b.Pages)
}

func TestSaveUniqueness(t *testing.T) {
	ctx := context.Background()

	t.Run("soft", func(t *testing.T) {
		h := newHandler(t)
		_, err := h.InvokeInstance(ctx, &testmodels.Book{Title: "Dune", ISBN: "X"}, methods.Save)
		require.NoError(t, err)

		dup := &testmodels.Book{Title: "Copy", ISBN: "X"}
		saved, err := h.InvokeInstance(ctx, dup, methods.Save)
		require.NoError(t, err)
		assert.Nil(t, saved)
		fe, ok := dup.Errors().FieldError("isbn")
		require.True(t, ok)
		assert.Equal(t, "unique", fe.Code())
	})

	t.Run("fail on error", func(t *testing.T) {
		h := newHandler(t, memory.WithFailOnError(true))
		_, err := h.InvokeInstance(ctx, &testmodels.Book{Title: "Dune", ISBN: "X"}, methods.Save)
		require.NoError(t, err)

		_, err = h.InvokeInstance(ctx, &testmodels.Book{Title: "Copy", ISBN: "X"}, methods.Save)
		var ve *errors.ValidationError
		require.True(t, stderrors.As(err, &ve))
		assert.Equal(t, "isbn", ve.Property)
		assert.Equal(t, 1, static(t, h, bookType, methods.Count))
	})

	t.Run("strict", func(t *testing.T) {
		h := newHandler(t, memory.WithStrictUnique())
		var g errgroup.Group
		for i := 0; i < 16; i++ {
			g.Go(func() error {
				_, err := h.InvokeInstance(ctx, &testmodels.Book{Title: "Dune", ISBN: "X"}, methods.Save)
				return err
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, 1, static(t, h, bookType, methods.Count))
	})
}

func TestSaveRunsHooks(t *testing.T) {
	h := newHandler(t)
	b := &testmodels.Book{Title: "Dune"}
	_, err := h.InvokeInstance(context.Background(), b, methods.Save, map[string]any{"failOnError": true})
	require.NoError(t, err)
	_, err = h.InvokeInstance(context.Background(), b, methods.Delete)
	require.NoError(t, err)
	assert.Equal(t, []string{"BeforeInsert", "OnSave", "AfterInsert", "BeforeDelete"}, b.Events())
}

func TestConcurrentSavesGetDistinctIdentities(t *testing.T) {
	h := newHandler(t)
	const n = 64

	people := make([]*testmodels.Person, n)
	var g errgroup.Group
	for i := range people {
		people[i] = &testmodels.Person{Name: "p"}
		p := people[i]
		g.Go(func() error {
			_, err := h.InvokeInstance(context.Background(), p, methods.Save)
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool, n)
	for _, p := range people {
		assert.False(t, seen[p.ID], "identity %d assigned twice", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, n, static(t, h, personType, methods.Count))
	got := ids(t, static(t, h, personType, methods.FindAll))
	require.Len(t, got, n)
	for i, id := range got {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestDatastores(t *testing.T) {
	h := newHandler(t, memory.WithDatastores("archive", "", "default"))

	assert.Equal(t, []string{"default", "archive"}, h.Datastores())
	def, ok := h.Datastore("")
	require.True(t, ok)
	assert.Equal(t, "default", def.Name())
	archive, ok := h.Datastore("archive")
	require.True(t, ok)
	assert.Equal(t, "archive", archive.Name())
	_, ok = h.Datastore("missing")
	assert.False(t, ok)

	seed(t, h)
	ds, err := def.Dataset(testmodels.PersonClass)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Size())
	ds, err = archive.Dataset(testmodels.PersonClass)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Size())
}

func TestMemoryPublishesWholeCatalog(t *testing.T) {
	h := newHandler(t)
	assert.Equal(t, methods.Catalog(), h.Signatures())

	_, err := h.InvokeStatic(context.Background(), personType, "frobnicate")
	assert.True(t, errors.IsUndefinedMethod(err))
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/domainstore/datastore/testmodels"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/registry"
)

func TestRegisterAndLookup(t *testing.T) {
	r := registry.NewClasses()
	require.NoError(t, r.Register(testmodels.BookClass))
	require.NoError(t, r.Register(testmodels.PersonClass))

	c, ok := r.Lookup(reflect.TypeOf(testmodels.Book{}))
	require.True(t, ok)
	assert.Same(t, testmodels.BookClass, c)

	c, ok = r.Lookup(reflect.TypeOf(&testmodels.Book{}))
	require.True(t, ok)
	assert.Same(t, testmodels.BookClass, c)

	c, ok = r.LookupValue(&testmodels.Person{})
	require.True(t, ok)
	assert.Same(t, testmodels.PersonClass, c)

	c, ok = r.ByName("Person")
	require.True(t, ok)
	assert.Same(t, testmodels.PersonClass, c)

	_, ok = r.Lookup(reflect.TypeOf(""))
	assert.False(t, ok)
	_, ok = r.Lookup(nil)
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Book", all[0].Name())
}

type other struct{ ID int64 }

func TestRegisterDuplicates(t *testing.T) {
	r := registry.NewClasses()
	require.NoError(t, r.Register(testmodels.BookClass))

	err := r.Register(testmodels.BookClass)
	assert.True(t, errors.IsAlreadyExists(err))

	sameName := entity.Define[other]("Book").
		Identity("id", func(o *other) int64 { return o.ID }, func(o *other, id int64) { o.ID = id }).
		MustBuild()
	assert.True(t, errors.IsAlreadyExists(r.Register(sameName)))

	assert.True(t, errors.IsInvalidArgument(r.Register(nil)))
	assert.Panics(t, func() { r.MustRegister(testmodels.BookClass) })
}

func TestConcurrentRegistration(t *testing.T) {
	r := registry.NewClasses()
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.Register(testmodels.BookClass)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

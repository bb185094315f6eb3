/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/domainstore/methods"
)

func TestSignatureString(t *testing.T) {
	tests := []struct {
		sig  methods.Signature
		want string
	}{
		{methods.Signature{ReturnType: "Entity", Name: "save"}, "Entity save()"},
		{methods.Signature{ReturnType: "Entity", Name: "save", Params: []string{"map[string]any"}}, "Entity save(map[string]any)"},
		{methods.Signature{Static: true, ReturnType: "int", Name: "countBy", Params: []string{"string", "...any"}}, "static int countBy(string,...any)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sig.String())
		})
	}
}

func TestSignatureCompare(t *testing.T) {
	a := methods.Signature{Static: true, ReturnType: "Entity", Name: "find", Params: []string{"map[string]any"}}
	b := methods.Signature{Static: true, ReturnType: "Entity", Name: "find", Params: []string{"map[string]any", "map[string]any"}}
	c := methods.Signature{Static: true, ReturnType: "Entity", Name: "first"}

	assert.Negative(t, methods.Compare(a, b))
	assert.Positive(t, methods.Compare(c, a))
	assert.Zero(t, methods.Compare(a, a))
	assert.True(t, a.Equal(methods.Signature{Static: true, ReturnType: "Entity", Name: "find", Params: []string{"map[string]any"}}))

	inst := a
	inst.Static = false
	assert.Negative(t, methods.Compare(inst, a))
}

func TestCatalogSorted(t *testing.T) {
	all := methods.Catalog()
	require.NotEmpty(t, all)
	assert.True(t, slices.IsSortedFunc(all, methods.Compare))
	assert.Equal(t, "static int count()", all[0].String())

	names := methods.Names()
	for _, name := range []string{
		methods.Save, methods.Delete, methods.Create, methods.Fetch, methods.Exists,
		methods.FetchAll, methods.Count, methods.CountBy, methods.List, methods.ListOrderBy,
		methods.First, methods.Last, methods.Find, methods.FindWhere, methods.FindBy,
		methods.FindAll, methods.FindAllWhere, methods.FindAllBy, methods.FindOrCreateBy,
		methods.FindOrCreateWhere, methods.FindOrSaveBy, methods.FindOrSaveWhere, methods.WithCriteria,
	} {
		assert.Contains(t, names, name)
	}
	assert.Len(t, names, 23)
}

func TestCatalogReturnsCopies(t *testing.T) {
	all := methods.Catalog()
	for i := range all {
		if len(all[i].Params) > 0 {
			all[i].Params[0] = "mutated"
		}
	}
	for _, s := range methods.Catalog() {
		assert.NotContains(t, s.Params, "mutated")
	}
}

func TestSignaturesFor(t *testing.T) {
	sigs := methods.SignaturesFor(methods.Save, methods.Delete)
	got := make([]string, len(sigs))
	for i, s := range sigs {
		got[i] = s.String()
	}
	assert.Equal(t, []string{
		"Entity delete()",
		"Entity save()",
		"Entity save(map[string]any)",
	}, got)

	assert.Empty(t, methods.SignaturesFor("frobnicate"))
}

func TestResolveDynamic(t *testing.T) {
	tests := []struct {
		method string
		base   string
		expr   string
		ok     bool
	}{
		{"findByTitle", methods.FindBy, "Title", true},
		{"findAllByTitleLike", methods.FindAllBy, "TitleLike", true},
		{"countByPagesGreaterThan", methods.CountBy, "PagesGreaterThan", true},
		{"listOrderByTitle", methods.ListOrderBy, "Title", true},
		{"findOrCreateByIsbn", methods.FindOrCreateBy, "Isbn", true},
		{"findOrSaveByAuthorAndTitle", methods.FindOrSaveBy, "AuthorAndTitle", true},
		{"findBy", "", "", false},
		{"findAllWhere", "", "", false},
		{"findBytitle", "", "", false},
		{"save", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			base, expr, ok := methods.ResolveDynamic(tt.method)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.expr, expr)
		})
	}
}

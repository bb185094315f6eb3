/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
)

type level int

type genre string

func TestEqual(t *testing.T) {
	s := "x"
	var nilPtr *string

	assert.True(t, equal(nil, nilPtr))
	assert.True(t, equal(&s, "x"))
	assert.True(t, equal(int8(3), uint64(3)))
	assert.True(t, equal(level(2), 2))
	assert.True(t, equal(3, 3.0))
	assert.False(t, equal(nil, ""))
	assert.False(t, equal("3", 3))
	assert.True(t, equal([]int{1}, []int{1}))
}

func TestCompare(t *testing.T) {
	now := time.Now()

	c, ok := compare(strfmt.DateTime(now), now.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = compare(strfmt.Date(now), strfmt.Date(now))
	assert.True(t, ok)
	assert.Equal(t, 0, c)

	c, ok = compare(int64(-1), uint(0))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = compare(true, false)
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	_, ok = compare(now, 5)
	assert.False(t, ok)
	_, ok = compare(struct{}{}, struct{}{})
	assert.False(t, ok)
}

func TestLikeRegexp(t *testing.T) {
	assert.True(t, likeRegexp("D%").MatchString("Dune"))
	assert.True(t, likeRegexp("%un%").MatchString("Dune"))
	assert.True(t, likeRegexp("a_c").MatchString("abc"))
	assert.False(t, likeRegexp("a_c").MatchString("abbc"))
	assert.False(t, likeRegexp("a.c").MatchString("abc"))
	assert.True(t, likeRegexp("%").MatchString("multi\nline"))
	assert.Same(t, likeRegexp("D%"), likeRegexp("D%"))
}

func TestSortCompare(t *testing.T) {
	assert.Equal(t, -1, sortCompare(nil, 1, false))
	assert.Equal(t, 1, sortCompare(1, nil, false))
	assert.Equal(t, 0, sortCompare("a", "A", true))
	assert.Equal(t, 1, sortCompare("a", "A", false))
	assert.Equal(t, 0, sortCompare("a", 1, false))

	s := "Fantasy"
	assert.Equal(t, 0, sortCompare(genre("fantasy"), genre("FANTASY"), true))
	assert.Equal(t, -1, sortCompare(genre("drama"), genre("Epic"), true))
	assert.Equal(t, 0, sortCompare(&s, "fantasy", true))
}

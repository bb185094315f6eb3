/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Catalog method names.
const (
	Save              = "save"
	Delete            = "delete"
	Create            = "create"
	Fetch             = "fetch"
	Exists            = "exists"
	FetchAll          = "fetchAll"
	Count             = "count"
	CountBy           = "countBy"
	List              = "list"
	ListOrderBy       = "listOrderBy"
	First             = "first"
	Last              = "last"
	Find              = "find"
	FindWhere         = "findWhere"
	FindBy            = "findBy"
	FindAll           = "findAll"
	FindAllWhere      = "findAllWhere"
	FindAllBy         = "findAllBy"
	FindOrCreateBy    = "findOrCreateBy"
	FindOrCreateWhere = "findOrCreateWhere"
	FindOrSaveBy      = "findOrSaveBy"
	FindOrSaveWhere   = "findOrSaveWhere"
	WithCriteria      = "withCriteria"
)

// dynamicPrefixes are the names whose suffix encodes a query, longest
// first so findAllBy is not taken for findBy... and findOrCreateBy wins.
var dynamicPrefixes = []string{
	FindOrCreateBy,
	FindOrSaveBy,
	ListOrderBy,
	FindAllBy,
	CountBy,
	FindBy,
}

// DynamicPrefixes returns the dynamic method prefixes, longest first.
func DynamicPrefixes() []string {
	return append([]string(nil), dynamicPrefixes...)
}

// ResolveDynamic splits a dynamic name such as findAllByTitleLike into its
// base method and expression. The expression must start with an upper
// case letter.
func ResolveDynamic(method string) (base, expr string, ok bool) {
	for _, prefix := range dynamicPrefixes {
		if !strings.HasPrefix(method, prefix) || len(method) == len(prefix) {
			continue
		}
		rest := method[len(prefix):]
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsUpper(r) {
			continue
		}
		return prefix, rest, true
	}
	return "", "", false
}

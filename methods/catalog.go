/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"cmp"
	"slices"
	"strings"
)

// Parameter and return type names used in signatures.
const (
	TypeEntity    = "Entity"
	TypeEntities  = "[]Entity"
	TypeInt       = "int"
	TypeBool      = "bool"
	TypeString    = "string"
	TypeID        = "int64"
	TypeIDs       = "[]int64"
	TypeVarArgs   = "...any"
	TypeMap       = "map[string]any"
	TypeCriterion = "criterion.Criterion"
	TypeBuilder   = "criterion.Func"
)

// Signature describes one accepted argument combination of a method.
type Signature struct {
	Static     bool     `yaml:"static" json:"static"`
	ReturnType string   `yaml:"returnType" json:"returnType"`
	Name       string   `yaml:"name" json:"name"`
	Params     []string `yaml:"params" json:"params"`
}

func static(ret, name string, params ...string) Signature {
	return Signature{Static: true, ReturnType: ret, Name: name, Params: params}
}

func instance(ret, name string, params ...string) Signature {
	return Signature{ReturnType: ret, Name: name, Params: params}
}

func (s Signature) String() string {
	var sb strings.Builder
	if s.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(s.ReturnType)
	sb.WriteByte(' ')
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(s.Params, ","))
	sb.WriteByte(')')
	return sb.String()
}

// Compare orders by name, then parameters, return type and staticness.
func Compare(a, b Signature) int {
	return cmp.Or(
		strings.Compare(a.Name, b.Name),
		slices.Compare(a.Params, b.Params),
		strings.Compare(a.ReturnType, b.ReturnType),
		cmp.Compare(rank(a.Static), rank(b.Static)),
	)
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Equal reports whether a and b describe the same signature.
func (s Signature) Equal(o Signature) bool { return Compare(s, o) == 0 }

var catalog = []Signature{
	instance(TypeEntity, Save),
	instance(TypeEntity, Save, TypeMap),
	instance(TypeEntity, Delete),

	static(TypeEntity, Create),
	static(TypeEntity, Create, TypeMap),
	static(TypeEntity, Fetch, TypeID),
	static(TypeBool, Exists, TypeID),
	static(TypeEntities, FetchAll),
	static(TypeEntities, FetchAll, TypeIDs),
	static(TypeEntities, FetchAll, TypeVarArgs),
	static(TypeInt, Count),
	static(TypeInt, CountBy, TypeString, TypeVarArgs),
	static(TypeEntities, List),
	static(TypeEntities, List, TypeMap),
	static(TypeEntities, ListOrderBy, TypeString),
	static(TypeEntities, ListOrderBy, TypeString, TypeMap),
	static(TypeEntity, First),
	static(TypeEntity, First, TypeString),
	static(TypeEntity, First, TypeMap),
	static(TypeEntity, Last),
	static(TypeEntity, Last, TypeString),
	static(TypeEntity, Last, TypeMap),

	static(TypeEntity, Find, TypeMap),
	static(TypeEntity, Find, TypeMap, TypeMap),
	static(TypeEntity, Find, TypeCriterion),
	static(TypeEntity, Find, TypeCriterion, TypeMap),
	static(TypeEntity, Find, TypeBuilder),
	static(TypeEntity, Find, TypeEntity),
	static(TypeEntity, Find, TypeEntity, TypeMap),
	static(TypeEntity, FindWhere, TypeMap),
	static(TypeEntity, FindBy, TypeString, TypeVarArgs),

	static(TypeEntities, FindAll),
	static(TypeEntities, FindAll, TypeMap),
	static(TypeEntities, FindAll, TypeMap, TypeMap),
	static(TypeEntities, FindAll, TypeCriterion),
	static(TypeEntities, FindAll, TypeCriterion, TypeMap),
	static(TypeEntities, FindAll, TypeBuilder),
	static(TypeEntities, FindAll, TypeMap, TypeBuilder),
	static(TypeEntities, FindAll, TypeEntity),
	static(TypeEntities, FindAll, TypeEntity, TypeMap),
	static(TypeEntities, FindAllWhere, TypeMap),
	static(TypeEntities, FindAllWhere, TypeMap, TypeMap),
	static(TypeEntities, FindAllBy, TypeString, TypeVarArgs),

	static(TypeEntity, FindOrCreateBy, TypeString, TypeVarArgs),
	static(TypeEntity, FindOrCreateWhere, TypeMap),
	static(TypeEntity, FindOrSaveBy, TypeString, TypeVarArgs),
	static(TypeEntity, FindOrSaveWhere, TypeMap),
	static(TypeEntity, FindOrSaveWhere, TypeMap, TypeMap),

	static(TypeEntities, WithCriteria, TypeCriterion),
	static(TypeEntities, WithCriteria, TypeCriterion, TypeMap),
	static(TypeEntities, WithCriteria, TypeBuilder),
	static(TypeEntities, WithCriteria, TypeMap, TypeBuilder),
}

func init() {
	slices.SortFunc(catalog, Compare)
}

// Catalog returns every signature, sorted.
func Catalog() []Signature {
	out := make([]Signature, len(catalog))
	for i, s := range catalog {
		s.Params = slices.Clone(s.Params)
		out[i] = s
	}
	return out
}

// Names returns the distinct method names of the catalog, sorted.
func Names() []string {
	var names []string
	for _, s := range catalog {
		if len(names) == 0 || names[len(names)-1] != s.Name {
			names = append(names, s.Name)
		}
	}
	return names
}

// SignaturesFor returns the catalog signatures of the named methods, sorted.
func SignaturesFor(names ...string) []Signature {
	var out []Signature
	for _, s := range Catalog() {
		if slices.Contains(names, s.Name) {
			out = append(out, s)
		}
	}
	return out
}

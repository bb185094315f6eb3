// Package entity describes domain entity types to the rest of the module.
//
// Instead of reflecting over struct fields on every call, each entity type is
// described once with a Builder: an int64 identity and a set of named
// properties, each given as a getter and setter pair. The resulting Class is
// the accessor table used by datasets, evaluators and the save path.
package entity

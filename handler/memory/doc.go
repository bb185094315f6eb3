// Package memory implements the memory mapping: the full method catalog
// over an in-memory datastore.
//
// Find-all results are returned in identity order unless the call passes
// a sort option. Methods returning a single entity return nil when nothing
// matches.
package memory

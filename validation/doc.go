// Package validation holds the per-entity error accumulator consumed by the
// save path. Constraint evaluation itself belongs to the entity: the core
// only calls Validate and reads the recorded errors.
package validation

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handler

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/suparena/domainstore/errors"
)

// Mapping names.
const (
	MappingMemory   = "memory"
	MappingDynamoDB = "dynamodb"
	MappingDefault  = "default"
)

// Registry maps mapping names to handlers. It is safe for concurrent use.
type Registry struct {
	mu             sync.RWMutex
	handlers       map[string]Handler
	defaultMapping string
}

// NewRegistry returns an empty registry resolving blank names to
// defaultMapping, or to the memory mapping when defaultMapping is blank.
func NewRegistry(defaultMapping string) *Registry {
	if strings.TrimSpace(defaultMapping) == "" {
		defaultMapping = MappingMemory
	}
	return &Registry{
		handlers:       make(map[string]Handler),
		defaultMapping: defaultMapping,
	}
}

// DefaultMapping returns the mapping blank names resolve to.
func (r *Registry) DefaultMapping() string { return r.defaultMapping }

// Register adds h under its mapping name.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return errors.NewInvalidArgumentError("handler", "must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[h.Mapping()]; exists {
		return errors.NewAlreadyExistsError("mapping", h.Mapping())
	}
	r.handlers[h.Mapping()] = h
	return nil
}

// Resolve returns the handler registered under mapping.
func (r *Registry) Resolve(mapping string) (Handler, error) {
	if strings.TrimSpace(mapping) == "" {
		mapping = r.defaultMapping
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[mapping]
	if !ok {
		return nil, errors.NewInvalidArgumentError("mapping",
			fmt.Sprintf("no handler registered for mapping '%s'", mapping))
	}
	return h, nil
}

// Mappings returns the registered mapping names, sorted.
func (r *Registry) Mappings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

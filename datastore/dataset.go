/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/suparena/domainstore/criterion"
	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/storagemodels"
)

// Dataset stores the entities of one class keyed by identity.
//
// Reads and writes never block each other. List and query results come from
// a weakly consistent snapshot: a write racing with a read may or may not be
// observed by it. Results are always ordered by ascending identity unless a
// sort is requested.
type Dataset struct {
	class   *entity.Class
	entries sync.Map // int64 -> entity
	seq     atomic.Int64
	size    atomic.Int64
	mu      sync.Mutex
}

// NewDataset returns an empty dataset for class.
func NewDataset(class *entity.Class) *Dataset {
	return &Dataset{class: class}
}

// Class returns the class stored in the dataset.
func (d *Dataset) Class() *entity.Class { return d.class }

// Save inserts e when its identity is unset, assigning the next value of
// the dataset sequence, and overwrites the entry with the same identity
// otherwise. It performs no validation.
func (d *Dataset) Save(e any) (any, error) {
	if err := d.class.Check(e); err != nil {
		return nil, err
	}
	id := d.class.IdentityOf(e)
	if id == 0 {
		id = d.seq.Add(1)
		if err := d.class.SetIdentity(e, id); err != nil {
			return nil, err
		}
	} else {
		d.advance(id)
	}
	if _, loaded := d.entries.Swap(id, e); !loaded {
		d.size.Add(1)
	}
	return e, nil
}

// advance moves the sequence past an identity assigned by the caller.
func (d *Dataset) advance(id int64) {
	for {
		cur := d.seq.Load()
		if id <= cur || d.seq.CompareAndSwap(cur, id) {
			return
		}
	}
}

// Remove deletes the entry with the identity of e and returns it, or nil
// when nothing is stored under that identity.
func (d *Dataset) Remove(e any) any {
	if !d.class.Owns(e) {
		return nil
	}
	id := d.class.IdentityOf(e)
	if id == 0 {
		return nil
	}
	removed, loaded := d.entries.LoadAndDelete(id)
	if !loaded {
		return nil
	}
	d.size.Add(-1)
	return removed
}

// Fetch returns the entity stored under id, or nil.
func (d *Dataset) Fetch(id int64) any {
	e, ok := d.entries.Load(id)
	if !ok {
		return nil
	}
	return e
}

// Contains reports whether an entity is stored under id.
func (d *Dataset) Contains(id int64) bool {
	_, ok := d.entries.Load(id)
	return ok
}

func (d *Dataset) Size() int { return int(d.size.Load()) }

// Sequence returns the last identity handed out.
func (d *Dataset) Sequence() int64 { return d.seq.Load() }

type entry struct {
	id int64
	e  any
}

// snapshot collects the entries matching p in identity order.
func (d *Dataset) snapshot(p predicate) []any {
	var entries []entry
	d.entries.Range(func(k, v any) bool {
		if p(v) {
			entries = append(entries, entry{id: k.(int64), e: v})
		}
		return true
	})
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.id, b.id) })
	out := make([]any, len(entries))
	for i, en := range entries {
		out[i] = en.e
	}
	return out
}

// List returns every entity in identity order.
func (d *Dataset) List() []any {
	return d.snapshot(matchAll)
}

// ListWith returns every entity, paged and sorted by opts.
func (d *Dataset) ListWith(opts storagemodels.QueryOptions) ([]any, error) {
	return d.query(matchAll, opts)
}

// First returns the first entity whose properties equal filter.
func (d *Dataset) First(filter map[string]any) (any, error) {
	p, err := compileFilter(d.class, filter)
	if err != nil {
		return nil, err
	}
	return first(d.snapshot(p)), nil
}

// FirstMatching returns the first entity matching c.
func (d *Dataset) FirstMatching(c criterion.Criterion) (any, error) {
	p, err := compile(d.class, c)
	if err != nil {
		return nil, err
	}
	return first(d.snapshot(p)), nil
}

// Query returns the entities whose properties equal filter.
func (d *Dataset) Query(filter map[string]any) ([]any, error) {
	p, err := compileFilter(d.class, filter)
	if err != nil {
		return nil, err
	}
	return d.snapshot(p), nil
}

// QueryMatching returns the entities matching c.
func (d *Dataset) QueryMatching(c criterion.Criterion) ([]any, error) {
	return d.QueryMatchingWith(c, storagemodels.QueryOptions{})
}

// QueryMatchingWith returns the entities matching c, sorted then paged by
// opts.
func (d *Dataset) QueryMatchingWith(c criterion.Criterion, opts storagemodels.QueryOptions) ([]any, error) {
	p, err := compile(d.class, c)
	if err != nil {
		return nil, err
	}
	return d.query(p, opts)
}

// QueryByExample returns the entities equal to example on every non-zero
// property of example.
func (d *Dataset) QueryByExample(example any) ([]any, error) {
	c, err := ExampleCriterion(d.class, example)
	if err != nil {
		return nil, err
	}
	return d.QueryMatching(c)
}

// FirstByExample is QueryByExample returning the first match.
func (d *Dataset) FirstByExample(example any) (any, error) {
	c, err := ExampleCriterion(d.class, example)
	if err != nil {
		return nil, err
	}
	return d.FirstMatching(c)
}

// Exclusive runs fn while holding the dataset lock. Only callers of
// Exclusive are serialised; readers and plain writers are not.
func (d *Dataset) Exclusive(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

func (d *Dataset) query(p predicate, opts storagemodels.QueryOptions) ([]any, error) {
	if err := checkOptions(d.class, opts); err != nil {
		return nil, err
	}
	return Arrange(d.class, d.snapshot(p), opts)
}

func checkOptions(class *entity.Class, opts storagemodels.QueryOptions) error {
	if opts.Sorted() {
		if _, err := lookup(class, opts.Sort); err != nil {
			return err
		}
	}
	if opts.Offset < 0 || opts.Max < 0 {
		return errors.NewInvalidArgumentError("options", "max and offset must not be negative")
	}
	return nil
}

// Arrange sorts items of class by the sort property of opts, then pages
// them. Items are expected in identity order, which ties keep.
func Arrange(class *entity.Class, items []any, opts storagemodels.QueryOptions) ([]any, error) {
	if err := checkOptions(class, opts); err != nil {
		return nil, err
	}
	if opts.Sorted() {
		sortBy, _ := class.Property(opts.Sort)
		slices.SortStableFunc(items, func(a, b any) int {
			c := sortCompare(sortBy.Value(a), sortBy.Value(b), opts.IgnoreCase)
			if opts.Descending() {
				return -c
			}
			return c
		})
	}
	return Page(items, opts), nil
}

// Page applies offset and max to items.
func Page[E any](items []E, opts storagemodels.QueryOptions) []E {
	if opts.Offset >= len(items) {
		return items[:0]
	}
	items = items[opts.Offset:]
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	return items
}

func first(items []any) any {
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

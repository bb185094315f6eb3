/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/storagemodels"
	"github.com/suparena/domainstore/validation"
)

// Persister is the storage a Saver writes through. The memory and dynamodb
// mappings each adapt their backend to it.
type Persister interface {
	Class() *entity.Class
	Save(ctx context.Context, e any) (any, error)
	Remove(ctx context.Context, e any) (any, error)
	Fetch(ctx context.Context, id int64) (any, error)
	// Query returns the stored entities whose property equals value.
	Query(ctx context.Context, property string, value any) ([]any, error)
	// Exclusive runs fn while no other Exclusive call on the same store runs.
	Exclusive(fn func() error) error
}

// Saver runs validation, uniqueness checks and lifecycle hooks around a
// Persister write.
type Saver struct {
	// FailOnError is the failOnError default when the call passes none.
	FailOnError bool
	// StrictUnique runs the uniqueness check and the write in one
	// Exclusive section. Save hooks run inside that section, so a hook must
	// not save or delete entities of the same class: the lock is not
	// re-entrant.
	StrictUnique bool
	Logger       *slog.Logger
}

func (s *Saver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// Save persists target. It returns nil without error when validation or a
// uniqueness check fails and failOnError is off; the failure is then
// recorded in the entity's Errors.
func (s *Saver) Save(ctx context.Context, p Persister, target any, args ...any) (any, error) {
	class := p.Class()
	if err := class.Check(target); err != nil {
		return nil, err
	}
	opts, err := s.options(class, args)
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if errs := validation.ErrorsOf(target); errs != nil {
			errs.ClearAll()
		}
		if v, ok := target.(validation.Validateable); ok && !v.Validate() {
			s.logger().Debug("validation failed", "class", class.Name(), "failOnError", opts.FailOnError)
			if opts.FailOnError {
				return nil, errors.NewValidationError(class.Name())
			}
			return nil, nil
		}
	}

	insert := class.IdentityOf(target) == 0
	var saved any
	write := func() error {
		if opts.Validate {
			ok, err := s.checkUnique(ctx, p, target, opts.FailOnError)
			if err != nil || !ok {
				return err
			}
		}
		var werr error
		saved, werr = s.write(ctx, p, target, insert)
		return werr
	}
	if s.StrictUnique {
		err = p.Exclusive(write)
	} else {
		err = write()
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Saver) options(class *entity.Class, args []any) (storagemodels.SaveOptions, error) {
	var m map[string]any
	switch len(args) {
	case 0:
	case 1:
		var ok bool
		if m, ok = Map(args[0]); !ok {
			return storagemodels.SaveOptions{}, errors.NewMissingMethodError(Save, class.Name(), args)
		}
	default:
		return storagemodels.SaveOptions{}, errors.NewMissingMethodError(Save, class.Name(), args)
	}
	return storagemodels.ParseSaveOptions(m, s.FailOnError)
}

// checkUnique reports whether target may be written. Zero values are not
// checked.
func (s *Saver) checkUnique(ctx context.Context, p Persister, target any, failOnError bool) (bool, error) {
	class := p.Class()
	id := class.IdentityOf(target)
	for _, prop := range class.UniqueProperties() {
		value := prop.Value(target)
		if value == nil || reflect.ValueOf(value).IsZero() {
			continue
		}
		matches, err := p.Query(ctx, prop.Name(), value)
		if err != nil {
			return false, err
		}
		for _, other := range matches {
			if other == target || (id != 0 && class.IdentityOf(other) == id) {
				continue
			}
			s.logger().Debug("unique constraint violated",
				"class", class.Name(), "property", prop.Name(), "conflict", class.IdentityOf(other))
			if failOnError {
				return false, errors.NewConstraintError(class.Name(), "unique", prop.Name(), value)
			}
			if errs := validation.ErrorsOf(target); errs != nil {
				errs.RejectField(prop.Name(), value, "unique",
					fmt.Sprintf("Property [%s] of class [%s] with value [%v] must be unique", prop.Name(), class.Name(), value),
					prop.Name(), class.Name(), value)
			}
			return false, nil
		}
	}
	return true, nil
}

func (s *Saver) write(ctx context.Context, p Persister, target any, insert bool) (any, error) {
	if insert {
		if h, ok := target.(entity.BeforeInsertHook); ok {
			if err := h.BeforeInsert(); err != nil {
				return nil, err
			}
		}
	} else if h, ok := target.(entity.BeforeUpdateHook); ok {
		if err := h.BeforeUpdate(); err != nil {
			return nil, err
		}
	}

	saved, err := p.Save(ctx, target)
	if err != nil {
		return nil, err
	}
	s.logger().Debug("saved entity", "class", p.Class().Name(), "id", p.Class().IdentityOf(saved), "insert", insert)

	if h, ok := target.(entity.OnSaveHook); ok {
		if err := h.OnSave(); err != nil {
			return nil, err
		}
	}
	if insert {
		if h, ok := target.(entity.AfterInsertHook); ok {
			if err := h.AfterInsert(); err != nil {
				return nil, err
			}
		}
	} else if h, ok := target.(entity.AfterUpdateHook); ok {
		if err := h.AfterUpdate(); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// DeleteEntity removes target when it is stored, running its before-delete hook
// first. It returns nil when target is not stored.
func DeleteEntity(ctx context.Context, p Persister, target any) (any, error) {
	class := p.Class()
	if err := class.Check(target); err != nil {
		return nil, err
	}
	id := class.IdentityOf(target)
	if id == 0 {
		return nil, nil
	}
	stored, err := p.Fetch(ctx, id)
	if err != nil || stored == nil {
		return nil, err
	}
	if h, ok := target.(entity.BeforeDeleteHook); ok {
		if err := h.BeforeDelete(); err != nil {
			return nil, err
		}
	}
	return p.Remove(ctx, target)
}

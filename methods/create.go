/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package methods

import (
	"fmt"

	"github.com/suparena/domainstore/entity"
	"github.com/suparena/domainstore/errors"
)

// NewEntity returns a new unsaved entity of class with props applied.
func NewEntity(class *entity.Class, props map[string]any) (any, error) {
	e := class.New()
	for name, value := range props {
		prop, ok := class.Property(name)
		if !ok {
			return nil, errors.NewInvalidArgumentError(name,
				fmt.Sprintf("%s has no property named %q", class.Name(), name))
		}
		if err := prop.SetValue(e, value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

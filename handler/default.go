/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handler

import (
	"log/slog"

	"github.com/suparena/domainstore/methods"
	"github.com/suparena/domainstore/registry"
)

// NewDefault returns the default mapping handler. It knows every catalog
// method and supports none of them.
func NewDefault(classes *registry.Classes, logger *slog.Logger) *Base {
	return NewBase(MappingDefault, classes, logger).Unsupported(methods.Names()...)
}

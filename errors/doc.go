/*
Package errors provides semantic error types for domainstore.

The taxonomy separates three kinds of failure:

  - usage errors (InvalidArgumentError, MissingMethodError, UndefinedMethodError,
    NotDomainError) raised synchronously and never retried
  - business validation failures (ValidationError), raised only when a save runs
    with failOnError; otherwise they are recorded on the entity
  - unsupported operations (UnsupportedOperationError), raised when a mapping does
    not implement a catalog method

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("already exists")
	    ErrInvalidArgument = errors.New("invalid argument")
	    ErrValidation      = errors.New("validation failed")
	    ErrMissingMethod   = errors.New("no method signature matches arguments")
	    ErrUnsupported     = errors.New("unsupported domain method")
	)

Usage:

	_, err := handler.InvokeInstance(ctx, book, "save", map[string]any{"failOnError": true})
	if errors.IsValidation(err) {
	    // reject the form
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors

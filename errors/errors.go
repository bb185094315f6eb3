/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when registering something under a key already in use
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument is returned for malformed or missing arguments
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrValidation is returned when an entity violates a business rule
	ErrValidation = errors.New("validation failed")

	// ErrMissingMethod is returned when no variant of a method accepts the given arguments
	ErrMissingMethod = errors.New("no method signature matches arguments")

	// ErrUnsupported is returned when a mapping does not implement a catalog method
	ErrUnsupported = errors.New("unsupported domain method")

	// ErrUndefinedMethod is returned when a method name is not part of a mapping
	ErrUndefinedMethod = errors.New("undefined domain method")

	// ErrNotDomain is returned when the target is not a registered domain class
	ErrNotDomain = errors.New("not a domain class")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a key is registered twice
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// InvalidArgumentError represents a usage error detected before any work is done
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// ValidationError reports an entity that failed validation. Constraint and
// Property are empty when the failure is not tied to a single property.
type ValidationError struct {
	Entity     string
	Constraint string
	Property   string
	Value      any
}

func (e *ValidationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint '%s' failed validation for property '%s' with value %v", e.Constraint, e.Property, e.Value)
	}
	return fmt.Sprintf("an instance of %s failed validation", e.Entity)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MissingMethodError reports a method call whose arguments match none of its signatures
type MissingMethodError struct {
	Method string
	Type   string
	Args   []any
}

func (e *MissingMethodError) Error() string {
	types := make([]string, len(e.Args))
	for i, arg := range e.Args {
		types[i] = fmt.Sprintf("%T", arg)
	}
	return fmt.Sprintf("no signature of method %s.%s() is applicable for argument types: (%s)", e.Type, e.Method, strings.Join(types, ", "))
}

func (e *MissingMethodError) Is(target error) bool {
	return target == ErrMissingMethod
}

// UnsupportedOperationError reports a catalog method a mapping does not implement
type UnsupportedOperationError struct {
	Method  string
	Mapping string
	Cause   error
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("domain method %s is not supported by mapping '%s'", e.Method, e.Mapping)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}

func (e *UnsupportedOperationError) Unwrap() error {
	return e.Cause
}

// UndefinedMethodError reports a method name unknown to a mapping
type UndefinedMethodError struct {
	Method  string
	Mapping string
}

func (e *UndefinedMethodError) Error() string {
	return fmt.Sprintf("method %s is undefined for domain classes mapped with '%s'", e.Method, e.Mapping)
}

func (e *UndefinedMethodError) Is(target error) bool {
	return target == ErrUndefinedMethod
}

// NotDomainError reports a call on a value whose type is not a registered domain class
type NotDomainError struct {
	Method string
	Type   string
}

func (e *NotDomainError) Error() string {
	return fmt.Sprintf("cannot call %s() on non-domain class [%s]", e.Method, e.Type)
}

func (e *NotDomainError) Is(target error) bool {
	return target == ErrNotDomain
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, message string) error {
	return &InvalidArgumentError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewValidationError creates a ValidationError for a whole entity
func NewValidationError(entity string) error {
	return &ValidationError{Entity: entity}
}

// NewConstraintError creates a ValidationError for a single failed constraint
func NewConstraintError(entity, constraint, property string, value any) error {
	return &ValidationError{Entity: entity, Constraint: constraint, Property: property, Value: value}
}

// NewMissingMethodError creates a new MissingMethodError
func NewMissingMethodError(method, typ string, args []any) error {
	return &MissingMethodError{Method: method, Type: typ, Args: args}
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(method, mapping string, cause error) error {
	return &UnsupportedOperationError{Method: method, Mapping: mapping, Cause: cause}
}

// NewUndefinedMethodError creates a new UndefinedMethodError
func NewUndefinedMethodError(method, mapping string) error {
	return &UndefinedMethodError{Method: method, Mapping: mapping}
}

// NewNotDomainError creates a new NotDomainError
func NewNotDomainError(method, typ string) error {
	return &NotDomainError{Method: method, Type: typ}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsValidation checks if an error is a business validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMissingMethod checks if an error is a missing method error
func IsMissingMethod(err error) bool {
	return errors.Is(err, ErrMissingMethod)
}

// IsUnsupported checks if an error is an unsupported operation error
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsUndefinedMethod checks if an error is an undefined method error
func IsUndefinedMethod(err error) bool {
	return errors.Is(err, ErrUndefinedMethod)
}

// IsNotDomain checks if an error is a not domain class error
func IsNotDomain(err error) bool {
	return errors.Is(err, ErrNotDomain)
}

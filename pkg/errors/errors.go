// Package errors defines the error taxonomy shared by the invitation service:
// field-attributed validation failures, missing records, store failures and
// best-effort failures that are logged and dropped.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ValidationError reports bad user input. Fields maps a field name to a
// human-readable message; it always holds at least one entry.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

// NewValidationError constructs a ValidationError for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NewFieldsError constructs a ValidationError for several fields at once.
func NewFieldsError(fields map[string]string, err error) error {
	return &ValidationError{Fields: fields, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// FieldNames returns the offending field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotFoundError reports that a slug or id has no matching record.
type NotFoundError struct {
	Resource string
	Key      string
}

// NewNotFoundError constructs a NotFoundError.
func NewNotFoundError(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
	}
	return e.Resource + " not found"
}

// ForbiddenError reports that the caller is known but may not touch the
// resource.
type ForbiddenError struct {
	Resource string
}

// NewForbiddenError constructs a ForbiddenError.
func NewForbiddenError(resource string) error {
	return &ForbiddenError{Resource: resource}
}

func (e *ForbiddenError) Error() string {
	if e == nil {
		return ""
	}
	return "not allowed to modify " + e.Resource
}

// PersistenceError reports that an external store was unreachable or
// rejected an operation. Callers surface it as a generic retryable failure.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError constructs a PersistenceError.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the root error.
func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is or wraps a ForbiddenError.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// BestEffort logs a failure that must never interrupt the primary flow
// (autoplay blocked, counter bump failed, stale file removal failed).
func BestEffort(logger *zap.Logger, op string, err error) {
	if err == nil || logger == nil {
		return
	}
	logger.Debug("best-effort operation failed", zap.String("op", op), zap.Error(err))
}

package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Consistency errors
	ErrUniquenessViolation  = errors.New("uniqueness constraint violated")
	ErrReferentialIntegrity = errors.New("referential integrity violated")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// FieldError describes a single field that failed a declared constraint
type FieldError struct {
	Field   string
	Rule    string
	Param   string
	Message string
}

// ValidationError reports every field of an entity that failed validation
type ValidationError struct {
	Entity string
	Fields []FieldError
}

// NewValidationError creates a validation error for an entity
func NewValidationError(entity string, fields ...FieldError) *ValidationError {
	return &ValidationError{Entity: entity, Fields: fields}
}

// Error implements error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return fmt.Sprintf("%s: %s", strings.ToLower(e.Entity), strings.Join(parts, "; "))
}

// Unwrap implements errors.Unwrap interface
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Constraint names one violated composite-unique key and the fields it covers
type Constraint struct {
	Name   string
	Fields []string
}

// UniquenessViolation reports the composite-unique keys a candidate document collides with
type UniquenessViolation struct {
	Collection  string
	Constraints []Constraint
}

// NewUniquenessViolation creates a uniqueness violation for a collection
func NewUniquenessViolation(collection string, constraints ...Constraint) *UniquenessViolation {
	return &UniquenessViolation{Collection: collection, Constraints: constraints}
}

// Names returns the violated constraint names in report order
func (e *UniquenessViolation) Names() []string {
	names := make([]string, 0, len(e.Constraints))
	for _, c := range e.Constraints {
		names = append(names, c.Name)
	}
	return names
}

// Has reports whether the named constraint is among the violations
func (e *UniquenessViolation) Has(name string) bool {
	for _, c := range e.Constraints {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Error implements error interface
func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("%s: uniqueness constraint violated: %s", e.Collection, strings.Join(e.Names(), ", "))
}

// Unwrap implements errors.Unwrap interface
func (e *UniquenessViolation) Unwrap() error {
	return ErrUniquenessViolation
}

// ReferentialIntegrityViolation reports the dependent relationship that blocks a delete
type ReferentialIntegrityViolation struct {
	Entity       string
	Key          string
	Dependent    string
	Relationship string
}

// Error implements error interface
func (e *ReferentialIntegrityViolation) Error() string {
	return fmt.Sprintf("%s %q cannot be deleted: %s", strings.ToLower(e.Entity), e.Key, e.Relationship)
}

// Unwrap implements errors.Unwrap interface
func (e *ReferentialIntegrityViolation) Unwrap() error {
	return ErrReferentialIntegrity
}

// NotFoundError reports which natural key a lookup failed on
type NotFoundError struct {
	Entity string
	Key    string
}

// NewNotFoundError creates a not found error for an entity and its natural key
func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// Error implements error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s not found", strings.ToLower(e.Entity), e.Key)
}

// Unwrap implements errors.Unwrap interface
func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsRecoverable reports whether err belongs to the operator-facing taxonomy.
// Anything else (lost store connectivity, decoding failures) ends the session.
func IsRecoverable(err error) bool {
	return Is(err, ErrValidationFailed, ErrUniquenessViolation, ErrReferentialIntegrity, ErrResourceNotFound)
}

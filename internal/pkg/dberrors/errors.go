package dberrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL error codes the stores translate
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
)

// DuplicateKeyError is a store-level unique index violation
type DuplicateKeyError struct {
	Collection string
	Index      string
	Fields     []string
}

// Error implements error interface
func (e *DuplicateKeyError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("duplicate key in %s on index %s", e.Collection, e.Index)
	}
	return fmt.Sprintf("duplicate key in %s on index %s (%s)", e.Collection, e.Index, strings.Join(e.Fields, ", "))
}

// SchemaViolation is one schema rule a written document failed
type SchemaViolation struct {
	Field    string
	Operator string
	Allowed  []string
	Limit    int64
	Reason   string
}

// Message renders the violation for the operator
func (v SchemaViolation) Message() string {
	switch v.Operator {
	case "enum":
		return fmt.Sprintf("invalid value for field '%s'. Allowed values are: %s", v.Field, strings.Join(v.Allowed, ", "))
	case "maxLength", "minLength", "maximum", "minimum":
		return fmt.Sprintf("invalid value for field '%s'. The %s is %d", v.Field, v.Operator, v.Limit)
	case "required":
		return fmt.Sprintf("field '%s' is required", v.Field)
	}
	if v.Reason != "" {
		return fmt.Sprintf("'%s' for field '%s'", v.Reason, v.Field)
	}
	return fmt.Sprintf("field '%s' failed rule %s", v.Field, v.Operator)
}

// SchemaError is a write the store rejected against the collection schema
type SchemaError struct {
	Collection string
	Violations []SchemaViolation
}

// Error implements error interface
func (e *SchemaError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message())
	}
	return fmt.Sprintf("document failed validation in %s: %s", e.Collection, strings.Join(msgs, "; "))
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	// Check if the error is a PgError, if the code is unique_violation (23505),
	// and if the constraint name matches the provided one.
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// FromPostgres translates constraint violations raised by PostgreSQL.
// keysOf resolves an index name to its key fields; other errors pass through.
func FromPostgres(err error, collection string, keysOf func(index string) []string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		dup := &DuplicateKeyError{Collection: collection, Index: pgErr.ConstraintName}
		if keysOf != nil {
			dup.Fields = keysOf(pgErr.ConstraintName)
		}
		return dup
	case pgNotNullViolation, pgCheckViolation:
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.ConstraintName
		}
		return &SchemaError{
			Collection: collection,
			Violations: []SchemaViolation{{Field: field, Operator: "check", Reason: pgErr.Message}},
		}
	}
	return err
}

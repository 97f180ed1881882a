package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Describe renders err as the message shown to the operator.
// Each violated constraint or field gets its own line.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		validationErr *ValidationError
		uniqueErr     *UniquenessViolation
		refErr        *ReferentialIntegrityViolation
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		var b strings.Builder
		fmt.Fprintf(&b, "Invalid %s:", strings.ToLower(validationErr.Entity))
		for _, f := range validationErr.Fields {
			fmt.Fprintf(&b, "\n  - %s", f.Message)
		}
		return b.String()

	case errors.As(err, &uniqueErr):
		var b strings.Builder
		b.WriteString("Your input values violated:")
		for _, c := range uniqueErr.Constraints {
			if len(c.Fields) == 0 {
				fmt.Fprintf(&b, "\n  - constraint %s", c.Name)
				continue
			}
			fmt.Fprintf(&b, "\n  - constraint %s: combination of %s should be unique", c.Name, strings.Join(c.Fields, ", "))
		}
		return b.String()

	case errors.As(err, &refErr):
		return fmt.Sprintf("This %s cannot be deleted: %s.", strings.ToLower(refErr.Entity), refErr.Relationship)

	case errors.As(err, &notFoundErr):
		return fmt.Sprintf("%s with %s not found.", capitalize(notFoundErr.Entity), notFoundErr.Key)
	}

	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

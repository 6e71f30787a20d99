// Package errors is the error vocabulary shared by config validation and
// catalog loading: field-level validation failures that aggregate, and
// per-file catalog failures that keep their source path.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is the sentinel behind every validation failure. Callers branch
// with errors.Is against it instead of matching concrete error types.
var ErrInvalid = errors.New("invalid")

// FieldError names one invalid field. Field uses the caller's naming scheme:
// dotted yaml paths for config ("site.base_url"), JSON keys for catalog
// entries ("lastModified").
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in one pass, so the caller
// sees all problems at once instead of fixing them one re-run at a time.
type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// CatalogError wraps a validation failure with the source file it came from,
// so a malformed catalog entry fails the load loudly and names its origin.
type CatalogError struct {
	Path string
	Err  error
}

func (e CatalogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err.Error())
}

func (e CatalogError) Unwrap() error {
	return e.Err
}

// Package schema checks database tables against the entity types whose
// statements run on them.
package schema

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
)

// ValidationError represents a mismatch between a table and its entity.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins the validation errors, or returns nil when there are none.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Merge appends the errors and warnings of other to r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, list []*ValidationError) {
		if len(list) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range list {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures table validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strict bool
}

// Strict reports table columns that are not entity fields as errors
// instead of warnings.
func Strict() ValidateOption {
	return func(c *validateConfig) {
		c.strict = true
	}
}

// ValidateTable compares the columns of the table of t with its fields.
// A field without a column is an error: every statement of the entity
// selects or writes it. A column without a field is a warning, since the
// statements never touch it, unless Strict is set.
//
//	cols, _ := schema.Columns(ctx, drv, t.Table)
//	if res := schema.ValidateTable(t, cols); res.HasErrors() {
//	    log.Fatal(res)
//	}
func ValidateTable(t *graph.Type, columns []string, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	for _, name := range t.Columns() {
		if !slices.Contains(columns, name) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Table,
				Column:  name,
				Message: fmt.Sprintf("missing column of field %s.%s", t.Name, name),
			})
		}
	}
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		if seen[name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Table,
				Column:  name,
				Message: "duplicate column name",
			})
			continue
		}
		seen[name] = true
		if _, ok := t.Field(name); ok {
			continue
		}
		e := &ValidationError{
			Table:   t.Table,
			Column:  name,
			Message: fmt.Sprintf("column is not a field of %s", t.Name),
		}
		if cfg.strict {
			result.Errors = append(result.Errors, e)
		} else {
			result.Warnings = append(result.Warnings, e)
		}
	}
	return result
}

// Columns returns the column names of table in database order.
func Columns(ctx context.Context, drv dialect.Driver, table string) (columns []string, err error) {
	b := sql.Dialect(drv.Dialect())
	b.WriteString("SELECT * FROM ").Ident(table).WriteString(" WHERE 1=0")
	rows := &sql.Rows{}
	if err := drv.Query(ctx, b.String(), []any{}, rows); err != nil {
		return nil, fmt.Errorf("schema: columns of %s: %w", table, err)
	}
	defer func() { err = errors.Join(err, rows.Close()) }()
	if columns, err = rows.Columns(); err != nil {
		return nil, fmt.Errorf("schema: columns of %s: %w", table, err)
	}
	return columns, nil
}

// Validate reads the columns of the table of every type and validates them.
// A table that cannot be read is returned as an error, not as a result.
func Validate(ctx context.Context, drv dialect.Driver, types []*graph.Type, opts ...ValidateOption) (*ValidationResult, error) {
	result := &ValidationResult{}
	for _, t := range types {
		columns, err := Columns(ctx, drv, t.Table)
		if err != nil {
			return nil, err
		}
		result.Merge(ValidateTable(t, columns, opts...))
	}
	return result, nil
}

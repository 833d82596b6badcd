package crudgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrAlreadyExists is matched by AlreadyExistsError.
	ErrAlreadyExists = errors.New("crudgen: entity already exists")

	// ErrUnavailable is matched by UnavailableError.
	ErrUnavailable = errors.New("crudgen: database unavailable")

	// ErrInvalidArgument is matched by InvalidArgumentError.
	ErrInvalidArgument = errors.New("crudgen: invalid argument")

	// ErrReadOnly is returned when a mutation is requested on a view.
	ErrReadOnly = errors.New("crudgen: entity is read-only")
)

// AlreadyExistsError is returned when an insert or update violates a
// uniqueness constraint.
type AlreadyExistsError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("crudgen: already exists: %s", e.msg)
}

// Is reports whether the target error matches AlreadyExistsError.
func (e *AlreadyExistsError) Is(err error) bool {
	return err == ErrAlreadyExists
}

// Unwrap returns the underlying error.
func (e *AlreadyExistsError) Unwrap() error {
	return e.wrap
}

// NewAlreadyExistsError returns a new AlreadyExistsError.
func NewAlreadyExistsError(msg string, wrap error) *AlreadyExistsError {
	return &AlreadyExistsError{msg: msg, wrap: wrap}
}

// IsAlreadyExists returns true if the error is an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var e *AlreadyExistsError
	return errors.As(err, &e) || errors.Is(err, ErrAlreadyExists)
}

// ConstraintError represents a database constraint violation error other
// than a uniqueness violation.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("crudgen: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// UnavailableError is returned when the database cannot be reached or the
// connection broke during an operation.
type UnavailableError struct {
	Err error
}

// Error returns the error string.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("crudgen: database unavailable: %v", e.Err)
}

// Is reports whether the target error matches UnavailableError.
func (e *UnavailableError) Is(err error) bool {
	return err == ErrUnavailable
}

// Unwrap returns the underlying error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable returns true if the error is an UnavailableError.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var e *UnavailableError
	return errors.As(err, &e) || errors.Is(err, ErrUnavailable)
}

// InvalidArgumentError is returned for malformed filters, bad bind values
// and values rejected by the database as invalid data.
type InvalidArgumentError struct {
	Name string // argument or field name, may be empty
	Err  error
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("crudgen: invalid argument %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("crudgen: invalid argument: %v", e.Err)
}

// Is reports whether the target error matches InvalidArgumentError.
func (e *InvalidArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// Unwrap returns the underlying error.
func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// NewInvalidArgumentError returns a new InvalidArgumentError.
func NewInvalidArgumentError(name string, err error) *InvalidArgumentError {
	return &InvalidArgumentError{Name: name, Err: err}
}

// InvalidArgumentf returns an InvalidArgumentError for the named argument
// with a formatted message.
func InvalidArgumentf(name, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Name: name, Err: fmt.Errorf(format, args...)}
}

// IsInvalidArgument returns true if the error is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidArgument)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("crudgen: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "crudgen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("crudgen: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// QueryError wraps a query error with additional context.
type QueryError struct {
	Entity string // Entity type being queried
	Op     string // Operation (e.g., "find", "list", "exists")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("crudgen: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("crudgen: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a mutation error with additional context.
type MutationError struct {
	Entity string // Entity type being mutated
	Op     string // Operation (e.g., "insert", "update", "del")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("crudgen: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(entity, op string, err error) *MutationError {
	return &MutationError{Entity: entity, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

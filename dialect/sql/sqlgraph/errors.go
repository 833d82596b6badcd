package sqlgraph

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/syssam/crudgen"
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	var e crudgen.ConstraintError
	return errors.As(err, &e) ||
		IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err) ||
		IsNotNullConstraintError(err)
}

// sqlStateError is an interface for errors that provide SQLSTATE codes.
// Implemented by: pq.Error, pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

// sqliteCoder is implemented by modernc.org/sqlite errors.
type sqliteCoder interface {
	Code() int
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// SQLSTATE classes.
const (
	classDataException     = "22"
	classConnectionFailure = "08"
)

// MySQL error numbers.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
	mysqlBadNull                = 1048
	mysqlOutOfRange             = 1264
	mysqlTruncatedValue         = 1292
	mysqlIncorrectValue         = 1366
	mysqlDataTooLong            = 1406
)

// SQLState returns the SQLSTATE code of a Postgres or MySQL error.
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.SQLState != [5]byte{} {
		return string(myErr.SQLState[:]), true
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState(), true
	}
	return "", false
}

func mysqlNumber(err error) (uint16, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number, true
	}
	return 0, false
}

func sqliteCode(err error) (int, bool) {
	if e, ok := asError[sqliteCoder](err); ok {
		return e.Code(), true
	}
	return 0, false
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := SQLState(err); ok && code == pgUniqueViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && num == mysqlDuplicateEntry {
		return true
	}
	if code, ok := sqliteCode(err); ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
		return true
	}
	// Fallback to string matching for drivers that don't expose codes.
	return containsAny(err.Error(),
		"Error 1062",                 // MySQL
		"violates unique constraint", // Postgres
		"UNIQUE constraint failed",   // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := SQLState(err); ok && code == pgForeignKeyViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && (num == mysqlForeignKeyParent || num == mysqlForeignKeyChild) {
		return true
	}
	if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return containsAny(err.Error(),
		"Error 1451",                      // MySQL (Cannot delete or update a parent row)
		"Error 1452",                      // MySQL (Cannot add or update a child row)
		"violates foreign key constraint", // Postgres
		"FOREIGN KEY constraint failed",   // SQLite
	)
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
// e.g. a value does not satisfy a check condition.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := SQLState(err); ok && code == pgCheckViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && num == mysqlCheckConstraintViolate {
		return true
	}
	if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_CHECK {
		return true
	}
	return containsAny(err.Error(),
		"Error 3819",                // MySQL
		"violates check constraint", // Postgres
		"CHECK constraint failed",   // SQLite
	)
}

// IsNotNullConstraintError reports if the error resulted from writing NULL
// into a NOT NULL column.
func IsNotNullConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := SQLState(err); ok && code == pgNotNullViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && num == mysqlBadNull {
		return true
	}
	if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_NOTNULL {
		return true
	}
	return containsAny(err.Error(),
		"Error 1048",                   // MySQL
		"violates not-null constraint", // Postgres
		"NOT NULL constraint failed",   // SQLite
	)
}

// IsDataError reports if the database rejected a bound value, e.g. a
// malformed uuid, an out of range number or a too long string.
func IsDataError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := SQLState(err); ok && strings.HasPrefix(code, classDataException) {
		return true
	}
	if num, ok := mysqlNumber(err); ok {
		switch num {
		case mysqlOutOfRange, mysqlTruncatedValue, mysqlIncorrectValue, mysqlDataTooLong:
			return true
		}
	}
	if code, ok := sqliteCode(err); ok && code&0xff == sqlite3.SQLITE_MISMATCH {
		return true
	}
	return containsAny(err.Error(),
		"invalid input syntax", // Postgres
		"datatype mismatch",    // SQLite
	)
}

// IsConnectionError reports if the error resulted from a broken or
// unreachable database connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	if code, ok := SQLState(err); ok && strings.HasPrefix(code, classConnectionFailure) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && !errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return containsAny(err.Error(),
		"connection refused",
		"broken pipe",
		"connection reset by peer",
		"bad connection",
	)
}

// Classify maps a driver error to the crudgen error taxonomy. Errors that
// fall in no class are returned unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case IsUniqueConstraintError(err):
		return crudgen.NewAlreadyExistsError(err.Error(), err)
	case IsConstraintError(err):
		return crudgen.NewConstraintError(err.Error(), err)
	case IsDataError(err):
		return crudgen.NewInvalidArgumentError("", err)
	case IsConnectionError(err):
		return &crudgen.UnavailableError{Err: err}
	default:
		return err
	}
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Package dialect defines the driver interfaces shared by the query
// executors and the supported dialect names.
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// Dialects differ in placeholder style ($1 on Postgres, ? elsewhere) and in
// how case-insensitive matching is rendered. Both are handled by the
// dialect/sql builder.
//
// A Driver executes statements on a pooled connection. A Tx executes them
// inside a transaction:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// Sub-packages:
//
//   - dialect/sql: database/sql driver, statement builder and predicates
//   - dialect/sql/sqlgraph: classification of driver errors
package dialect

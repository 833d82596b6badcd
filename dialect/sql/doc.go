// Package sql implements the dialect.Driver interface on top of database/sql
// and provides the statement builder used by the query generators.
//
// # Builder
//
// Builder accumulates a statement and its bind arguments. Placeholders
// follow the dialect: $1, $2, ... on Postgres and ? on MySQL and SQLite.
// Identifiers are written bare and quoted only when they are reserved
// words:
//
//	b := sql.Dialect(dialect.Postgres)
//	b.WriteString("SELECT COUNT(*) FROM ").Ident("tags").WriteString(" WHERE 1=1")
//	b.And(sql.ContainsFold("name", "rust"))
//	query, args := b.Query()
//	// SELECT COUNT(*) FROM tags WHERE 1=1 AND name ILIKE $1, [%rust%]
//
// # Predicates
//
//   - EQ, NEQ: equality and inequality
//   - ContainsFold: case-insensitive substring match (ILIKE on Postgres,
//     LOWER(c) LIKE LOWER(p) elsewhere)
//   - Between: inclusive range
//
// # Drivers
//
// Driver wraps a *sql.DB. StatsDriver collects query statistics and reports
// slow queries; DebugDriver logs every statement with log/slog:
//
//	drv, err := sql.OpenDriver(dialect.Postgres, "pgx", dsn)
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
package sql

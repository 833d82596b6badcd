// Package crud executes the statements of the query package.
//
// A Reader runs find, exists, list and list-all for any entity. A Table
// adds insert, update and delete, and is only available for entities that
// are not views:
//
//	drv, err := sql.OpenDriver(dialect.Postgres, "pgx", dsn)
//	if err != nil {
//		return err
//	}
//	tags, err := crud.NewTable(drv, g.Types[0], crud.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	id, err := tags.Insert(ctx, query.Record{"name": "rust"})
//
// Every operation uses one pooled connection, or the transaction bound with
// Tx. List reads the count and the page in a single transaction. Errors are
// classified by sqlgraph and wrapped in crudgen.QueryError or
// crudgen.MutationError.
package crud

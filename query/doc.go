// Package query derives the SQL statements of an entity from its graph.Type.
//
// A Generator is built once per entity and dialect. Mutating operations are
// nil for views; Find is nil for entities without find fields.
//
//	g, err := query.New(tagType, dialect.Postgres)
//	if err != nil {
//		return err
//	}
//	data, count, err := g.List().Bind(query.ListFilter{
//		Pagination: query.Pagination{Page: 0, PageSize: 10},
//		Opt:        map[string]any{"name": "rust"},
//	})
//	// data.SQL:  SELECT id, name, is_del FROM tags WHERE 1=1 AND name ILIKE $1 ORDER BY id DESC LIMIT 10 OFFSET 0
//	// count.SQL: SELECT COUNT(*) FROM tags WHERE 1=1 AND name ILIKE $1
//	// Args:      ["%rust%"]
//
// LIMIT and OFFSET are written as literals, so the data and count statements
// of a list always bind the same arguments.
package query

// Package graph builds the read-only descriptors that the query generators
// work from.
//
// A Type is built once per entity from its schema declaration. Building
// resolves the table name and the primary key, validates the fields and
// precomputes the field set of every operation:
//
//	t, err := graph.NewType(Tag{})
//	t.Table          // "tags"
//	t.ID.Name        // "id"
//	t.InsertFields() // fields without SkipInsert
//	t.UpdateFields() // fields without SkipUpdate, primary key excluded
//
// The primary key is the field marked with PrimaryKey, else the field named
// by Config.PrimaryKey, else the field named "id".
//
// A Graph registers several types and rejects duplicate entity names and
// tables:
//
//	g, err := graph.New(Tag{}, User{})
//	tag, ok := g.Lookup("Tag")
//
// Every build error is a *SchemaError matching ErrInvalidSchema. Several
// errors are reported together as a *crudgen.AggregateError.
package graph

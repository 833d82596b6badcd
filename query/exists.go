package query

import (
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
)

// ExistsOp counts the rows holding a value, optionally ignoring one row.
//
//	SELECT COUNT(*) FROM tags WHERE name = $1
//	SELECT COUNT(*) FROM tags WHERE name = $1 AND id <> $2
type ExistsOp struct {
	field   *graph.Field
	sql     string
	exclude string
}

func newExistsOp(g *Generator, f *graph.Field) *ExistsOp {
	b := g.builder()
	b.WriteString("SELECT COUNT(*) FROM ").Ident(g.typ.Table).Where(sql.EQ(f.Name, nil))
	op := &ExistsOp{field: f, sql: b.String()}
	b.And(sql.NEQ(g.typ.ID.Name, nil))
	op.exclude = b.String()
	return op
}

// Field returns the checked field.
func (op *ExistsOp) Field() *graph.Field { return op.field }

// SQL returns the statement template without the exclusion.
func (op *ExistsOp) SQL() string { return op.sql }

// ExcludeSQL returns the statement template with the exclusion.
func (op *ExistsOp) ExcludeSQL() string { return op.exclude }

// Bind returns the count statement for v. A nil exclude, or a nil pointer,
// counts every row; otherwise the row with primary key exclude is ignored.
// The value exists when the count is greater than zero.
func (op *ExistsOp) Bind(v, exclude any) Statement {
	if isNil(exclude) {
		return Statement{SQL: op.sql, Args: []any{v}}
	}
	return Statement{SQL: op.exclude, Args: []any{v, exclude}}
}

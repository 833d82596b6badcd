package query

import (
	"slices"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
)

// FindBy selects a row by exactly one alternative key. The zero value
// selects nothing; a FindBy is created by FindOp.By.
type FindBy struct {
	field *graph.Field
	value any
}

// Field returns the column name of the key.
func (b FindBy) Field() string {
	if b.field == nil {
		return ""
	}
	return b.field.Name
}

// Value returns the key value.
func (b FindBy) Value() any { return b.value }

// FindFilter filters a single-row find. Opt holds optional equality or
// fuzzy filters keyed by column; Between holds optional ranges.
type FindFilter struct {
	By      *FindBy
	Opt     map[string]any
	Between map[string]Range
}

// FindOp selects at most one row.
//
//	SELECT id, name, is_del FROM tags WHERE 1=1 AND name = $1 LIMIT 1
type FindOp struct {
	g       *Generator
	filters filterSet
	by      []*graph.Field
}

func newFindOp(g *Generator) *FindOp {
	if !g.typ.HasFind() {
		return nil
	}
	return &FindOp{
		g:  g,
		by: g.typ.FindByFields(),
		filters: filterSet{
			opt:     g.typ.FindOptFields(),
			between: g.typ.FindOptBetweenFields(),
		},
	}
}

// ByFields returns the alternative key fields.
func (op *FindOp) ByFields() []*graph.Field { return append([]*graph.Field(nil), op.by...) }

// By returns the key selecting rows whose column field equals v.
func (op *FindOp) By(field string, v any) (FindBy, error) {
	for _, f := range op.by {
		if f.Name == field {
			return FindBy{field: f, value: v}, nil
		}
	}
	return FindBy{}, crudgen.InvalidArgumentf(field, "not a find key of %s", op.g.typ.Name)
}

// Bind returns the statement for the filter. Active filters are joined
// with AND: the key first, then optional filters, then ranges.
func (op *FindOp) Bind(f FindFilter) (Statement, error) {
	var preds []sql.Predicate
	if f.By != nil {
		if f.By.field == nil || !slices.Contains(op.by, f.By.field) {
			return Statement{}, crudgen.InvalidArgumentf(f.By.Field(), "not a find key of %s", op.g.typ.Name)
		}
		preds = append(preds, sql.EQ(f.By.field.Name, f.By.value))
	}
	rest, err := op.filters.predicates(nil, f.Opt, f.Between)
	if err != nil {
		return Statement{}, err
	}
	b := op.g.selectFrom(op.g.builder())
	where(b, append(preds, rest...)).WriteString(" LIMIT 1")
	query, args := b.Query()
	return Statement{SQL: query, Args: args}, nil
}

// Template returns the statement with every filter active.
func (op *FindOp) Template() string {
	f := FindFilter{Opt: templateValues(op.filters.opt), Between: templateRanges(op.filters.between)}
	if len(op.by) > 0 {
		f.By = &FindBy{field: op.by[0], value: ""}
	}
	stmt, _ := op.Bind(f)
	return stmt.SQL
}

func templateValues(fields []*graph.Field) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Name] = ""
	}
	return m
}

func templateRanges(fields []*graph.Field) map[string]Range {
	m := make(map[string]Range, len(fields))
	for _, f := range fields {
		m[f.Name] = Range{Start: "", End: ""}
	}
	return m
}

package query

import (
	"fmt"

	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
)

type (
	// Record holds column values keyed by column name.
	Record map[string]any

	// Statement is a SQL statement with its bound arguments.
	Statement struct {
		SQL  string
		Args []any
	}
)

// Generator derives the statements of one entity for one dialect. All
// statement templates are computed by New; a Generator is read-only
// afterwards and safe for concurrent use.
type Generator struct {
	typ     *graph.Type
	dialect string

	insert  *InsertOp
	update  *UpdateOp
	self    map[string]*SelfUpdateOp
	selfs   []*SelfUpdateOp
	del     *DeleteOps
	exists  map[string]*ExistsOp
	existss []*ExistsOp
	find    *FindOp
	list    *ListOp
	listAll *ListAllOp
}

// New returns the generator of t for the given dialect.
func New(t *graph.Type, name string) (*Generator, error) {
	if t == nil {
		return nil, fmt.Errorf("query: nil type")
	}
	if !dialect.Valid(name) {
		return nil, fmt.Errorf("query: unsupported dialect %q", name)
	}
	g := &Generator{
		typ:     t,
		dialect: name,
		self:    make(map[string]*SelfUpdateOp),
		exists:  make(map[string]*ExistsOp),
	}
	g.insert = newInsertOp(g)
	g.update = newUpdateOp(g)
	for _, f := range t.SelfUpdateFields() {
		op := newSelfUpdateOp(g, f)
		g.self[f.Name] = op
		g.selfs = append(g.selfs, op)
	}
	g.del = newDeleteOps(g)
	for _, f := range t.ExistsFields() {
		op := newExistsOp(g, f)
		g.exists[f.Name] = op
		g.existss = append(g.existss, op)
	}
	g.find = newFindOp(g)
	g.list = newListOp(g)
	g.listAll = newListAllOp(g)
	return g, nil
}

// Type returns the entity type of the generator.
func (g *Generator) Type() *graph.Type { return g.typ }

// Dialect returns the dialect name of the generator.
func (g *Generator) Dialect() string { return g.dialect }

// Insert returns the insert operation, or nil for views and entities
// without insertable fields.
func (g *Generator) Insert() *InsertOp { return g.insert }

// Update returns the whole-row update operation, or nil for views and
// entities without updatable fields.
func (g *Generator) Update() *UpdateOp { return g.update }

// SelfUpdate returns the single-column update of the given field.
func (g *Generator) SelfUpdate(field string) (*SelfUpdateOp, bool) {
	op, ok := g.self[field]
	return op, ok
}

// SelfUpdates returns all single-column updates in field declaration order.
func (g *Generator) SelfUpdates() []*SelfUpdateOp { return append([]*SelfUpdateOp(nil), g.selfs...) }

// Delete returns the delete operations, or nil for views.
func (g *Generator) Delete() *DeleteOps { return g.del }

// Exists returns the existence check of the given field.
func (g *Generator) Exists(field string) (*ExistsOp, bool) {
	op, ok := g.exists[field]
	return op, ok
}

// ExistsOps returns all existence checks in field declaration order.
func (g *Generator) ExistsOps() []*ExistsOp { return append([]*ExistsOp(nil), g.existss...) }

// Find returns the single-row find operation, or nil when the entity has
// no find, optional find or ranged find fields.
func (g *Generator) Find() *FindOp { return g.find }

// List returns the paginated list operation.
func (g *Generator) List() *ListOp { return g.list }

// ListAll returns the capped list operation.
func (g *Generator) ListAll() *ListAllOp { return g.listAll }

func (g *Generator) builder() *sql.Builder {
	return sql.Dialect(g.dialect)
}

// selectFrom writes "SELECT <columns> FROM <table>".
func (g *Generator) selectFrom(b *sql.Builder) *sql.Builder {
	return b.WriteString("SELECT ").IdentComma(g.typ.Columns()...).WriteString(" FROM ").Ident(g.typ.Table)
}

// whereID writes " WHERE <pk> = <placeholder>" binding pk.
func (g *Generator) whereID(b *sql.Builder, pk any) *sql.Builder {
	return b.Where(sql.EQ(g.typ.ID.Name, pk))
}

// Count returns the statement counting every row of the table, filters
// aside.
//
//	SELECT COUNT(*) FROM tags
func (g *Generator) Count() Statement {
	b := g.builder().WriteString("SELECT COUNT(*) FROM ").Ident(g.typ.Table)
	return Statement{SQL: b.String()}
}

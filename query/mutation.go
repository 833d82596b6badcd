package query

import (
	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/graph"
)

// InsertOp inserts one row.
//
//	INSERT INTO tags (name, user_id) VALUES ($1, $2) RETURNING id
type InsertOp struct {
	g      *Generator
	sql    string
	fields []*graph.Field
	// clientID is set when the primary key value is part of the insert.
	clientID bool
	// returning is set when the statement reads the generated key back.
	returning bool
}

func newInsertOp(g *Generator) *InsertOp {
	fields := g.typ.InsertFields()
	if g.typ.View || len(fields) == 0 {
		return nil
	}
	op := &InsertOp{g: g, fields: fields}
	for _, f := range fields {
		if f.PrimaryKey {
			op.clientID = true
		}
	}
	b := g.builder()
	b.WriteString("INSERT INTO ").Ident(g.typ.Table).WriteString(" (")
	for i, f := range fields {
		if i > 0 {
			b.Comma()
		}
		b.Ident(f.Name)
	}
	b.WriteString(") VALUES (")
	for i := range fields {
		if i > 0 {
			b.Comma()
		}
		b.Arg(nil)
	}
	b.WriteByte(')')
	if !op.clientID && b.Postgres() {
		op.returning = true
		b.WriteString(" RETURNING ").Ident(g.typ.ID.Name)
	}
	op.sql = b.String()
	return op
}

// SQL returns the statement template.
func (op *InsertOp) SQL() string { return op.sql }

// Fields returns the inserted fields in column order.
func (op *InsertOp) Fields() []*graph.Field { return append([]*graph.Field(nil), op.fields...) }

// ClientID reports whether the primary key is computed before the insert,
// from the record or the field default.
func (op *InsertOp) ClientID() bool { return op.clientID }

// Returning reports whether the statement returns the generated primary
// key as a result row. When neither ClientID nor Returning is set, the key
// is read from the driver result (LastInsertId).
func (op *InsertOp) Returning() bool { return op.returning }

// Bind returns the statement for r and the client-computed primary key,
// nil when the database generates it. Missing values are taken from the
// field default, or bound as NULL when the field has none.
func (op *InsertOp) Bind(r Record) (Statement, any, error) {
	if err := op.g.checkColumns(r); err != nil {
		return Statement{}, nil, err
	}
	var (
		id   any
		args = make([]any, len(op.fields))
	)
	for i, f := range op.fields {
		v, ok := r[f.Name]
		if (!ok || v == nil) && f.Default != nil {
			v = f.Default()
		}
		if f.PrimaryKey {
			if v == nil {
				return Statement{}, nil, crudgen.InvalidArgumentf(f.Name, "missing primary key value")
			}
			id = v
		}
		args[i] = v
	}
	return Statement{SQL: op.sql, Args: args}, id, nil
}

// UpdateOp updates all updatable columns of one row.
//
//	UPDATE tags SET name = $1, user_id = $2 WHERE id = $3
type UpdateOp struct {
	g      *Generator
	sql    string
	fields []*graph.Field
}

func newUpdateOp(g *Generator) *UpdateOp {
	fields := g.typ.UpdateFields()
	if g.typ.View || len(fields) == 0 {
		return nil
	}
	b := g.builder()
	b.WriteString("UPDATE ").Ident(g.typ.Table).WriteString(" SET ")
	for i, f := range fields {
		if i > 0 {
			b.Comma()
		}
		b.Ident(f.Name).WriteString(" = ").Arg(nil)
	}
	g.whereID(b, nil)
	return &UpdateOp{g: g, sql: b.String(), fields: fields}
}

// SQL returns the statement template.
func (op *UpdateOp) SQL() string { return op.sql }

// Fields returns the updated fields in column order.
func (op *UpdateOp) Fields() []*graph.Field { return append([]*graph.Field(nil), op.fields...) }

// Bind returns the statement for r. The record must carry the primary key
// and a value for every updated field without an update default.
func (op *UpdateOp) Bind(r Record) (Statement, error) {
	if err := op.g.checkColumns(r); err != nil {
		return Statement{}, err
	}
	pk := op.g.typ.ID.Name
	id, ok := r[pk]
	if !ok || id == nil {
		return Statement{}, crudgen.InvalidArgumentf(pk, "missing primary key value")
	}
	args := make([]any, 0, len(op.fields)+1)
	for _, f := range op.fields {
		v, ok := r[f.Name]
		switch {
		case ok:
		case f.UpdateDefault != nil:
			v = f.UpdateDefault()
		default:
			return Statement{}, crudgen.InvalidArgumentf(f.Name, "missing value")
		}
		args = append(args, v)
	}
	return Statement{SQL: op.sql, Args: append(args, id)}, nil
}

// SelfUpdateOp updates a single column of one row.
//
//	UPDATE tags SET name = $1 WHERE id = $2
type SelfUpdateOp struct {
	sql   string
	field *graph.Field
}

func newSelfUpdateOp(g *Generator, f *graph.Field) *SelfUpdateOp {
	b := g.builder()
	b.WriteString("UPDATE ").Ident(g.typ.Table).WriteString(" SET ").Ident(f.Name).WriteString(" = ").Arg(nil)
	g.whereID(b, nil)
	return &SelfUpdateOp{sql: b.String(), field: f}
}

// SQL returns the statement template.
func (op *SelfUpdateOp) SQL() string { return op.sql }

// Field returns the updated field.
func (op *SelfUpdateOp) Field() *graph.Field { return op.field }

// Bind returns the statement setting the column to v on row pk.
func (op *SelfUpdateOp) Bind(v, pk any) Statement {
	return Statement{SQL: op.sql, Args: []any{v, pk}}
}

// KeyOp is a statement with the primary key as its only argument.
type KeyOp struct {
	sql string
}

// SQL returns the statement template.
func (op *KeyOp) SQL() string { return op.sql }

// Bind returns the statement for row pk.
func (op *KeyOp) Bind(pk any) Statement {
	return Statement{SQL: op.sql, Args: []any{pk}}
}

// DeleteOps holds the delete operations of an entity.
//
// Without a soft-delete column Del and RealDel are the same hard delete and
// Restore is nil. With one, Del and Restore flip the flag and RealDel
// removes the row.
type DeleteOps struct {
	Del     *KeyOp
	Restore *KeyOp
	RealDel *KeyOp
}

func newDeleteOps(g *Generator) *DeleteOps {
	if g.typ.View {
		return nil
	}
	b := g.builder()
	b.WriteString("DELETE FROM ").Ident(g.typ.Table)
	g.whereID(b, nil)
	hard := &KeyOp{sql: b.String()}
	sd := g.typ.SoftDelete
	if sd == nil {
		return &DeleteOps{Del: hard, RealDel: hard}
	}
	flag := func(v string) *KeyOp {
		b := g.builder()
		b.WriteString("UPDATE ").Ident(g.typ.Table).WriteString(" SET ").Ident(sd.Name).WriteString(" = " + v)
		g.whereID(b, nil)
		return &KeyOp{sql: b.String()}
	}
	return &DeleteOps{Del: flag("TRUE"), Restore: flag("FALSE"), RealDel: hard}
}

// checkColumns reports record keys that are not columns of the entity.
func (g *Generator) checkColumns(r Record) error {
	for k := range r {
		if _, ok := g.typ.Field(k); !ok {
			return crudgen.InvalidArgumentf(k, "unknown column of %s", g.typ.Name)
		}
	}
	return nil
}

package crud

import (
	"context"
	"fmt"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/dialect/sql/sqlgraph"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
)

// Table runs the read and write operations of one entity. Views have no
// Table.
type Table struct {
	*Reader
}

// NewTable returns the table of t over drv. It fails with
// crudgen.ErrReadOnly for views.
func NewTable(drv dialect.Driver, t *graph.Type, opts ...Option) (*Table, error) {
	if t != nil && t.View {
		return nil, fmt.Errorf("crud: %s: %w", t.Name, crudgen.ErrReadOnly)
	}
	r, err := NewReader(drv, t, opts...)
	if err != nil {
		return nil, err
	}
	return &Table{Reader: r}, nil
}

// Tx returns a copy of the table that runs its statements in tx.
func (t *Table) Tx(tx dialect.Tx) *Table {
	return &Table{Reader: t.Reader.Tx(tx)}
}

// Insert inserts r and returns the primary key of the new row.
func (t *Table) Insert(ctx context.Context, r query.Record) (any, error) {
	op := t.gen.Insert()
	if op == nil {
		return nil, t.mutationErr("insert", fmt.Errorf("%s has no insertable fields", t.typ.Name))
	}
	stmt, id, err := op.Bind(r)
	if err != nil {
		return nil, t.mutationErr("insert", err)
	}
	t.log(ctx, "insert", stmt)
	switch {
	case op.ClientID():
		err = t.eq.Exec(ctx, stmt.SQL, stmt.Args, nil)
	case op.Returning():
		var rows sql.Rows
		if err = t.eq.Query(ctx, stmt.SQL, stmt.Args, &rows); err == nil {
			id, err = scanID(rows, t.typ.ID)
		}
	default:
		var res sql.Result
		if err = t.eq.Exec(ctx, stmt.SQL, stmt.Args, &res); err == nil {
			var n int64
			if n, err = res.LastInsertId(); err == nil {
				id, err = normalize(t.typ.ID, n)
			}
		}
	}
	if err != nil {
		return nil, t.mutationErr("insert", sqlgraph.Classify(err))
	}
	t.mutated(ctx)
	return id, nil
}

// Update writes every updatable column of r to the row holding the primary
// key of r, and returns the number of affected rows.
func (t *Table) Update(ctx context.Context, r query.Record) (int64, error) {
	op := t.gen.Update()
	if op == nil {
		return 0, t.mutationErr("update", fmt.Errorf("%s has no updatable fields", t.typ.Name))
	}
	stmt, err := op.Bind(r)
	if err != nil {
		return 0, t.mutationErr("update", err)
	}
	return t.exec(ctx, "update", stmt)
}

// UpdateField sets a single column of row pk.
func (t *Table) UpdateField(ctx context.Context, field string, value, pk any) (int64, error) {
	op, ok := t.gen.SelfUpdate(field)
	if !ok {
		return 0, t.mutationErr("update_"+field, crudgen.InvalidArgumentf(field, "not an updatable field of %s", t.typ.Name))
	}
	return t.exec(ctx, "update_"+field, op.Bind(value, pk))
}

// Delete soft-deletes row pk when the entity has a soft-delete field, and
// removes it otherwise.
func (t *Table) Delete(ctx context.Context, pk any) (int64, error) {
	return t.exec(ctx, "del", t.gen.Delete().Del.Bind(pk))
}

// Restore clears the soft-delete flag of row pk.
func (t *Table) Restore(ctx context.Context, pk any) (int64, error) {
	op := t.gen.Delete().Restore
	if op == nil {
		return 0, t.mutationErr("restore", fmt.Errorf("%s has no soft-delete field", t.typ.Name))
	}
	return t.exec(ctx, "restore", op.Bind(pk))
}

// RealDelete removes row pk.
func (t *Table) RealDelete(ctx context.Context, pk any) (int64, error) {
	return t.exec(ctx, "real_del", t.gen.Delete().RealDel.Bind(pk))
}

func (t *Table) exec(ctx context.Context, op string, stmt query.Statement) (int64, error) {
	t.log(ctx, op, stmt)
	var res sql.Result
	if err := t.eq.Exec(ctx, stmt.SQL, stmt.Args, &res); err != nil {
		return 0, t.mutationErr(op, sqlgraph.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, t.mutationErr(op, err)
	}
	t.mutated(ctx)
	return n, nil
}

func (t *Table) mutationErr(op string, err error) error {
	return crudgen.NewMutationError(t.typ.Name, op, err)
}

func scanID(rows sql.ColumnScanner, id *graph.Field) (v any, err error) {
	defer func() {
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
	}()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("crud: insert returned no %s", id.Name)
	}
	if err := rows.Scan(&v); err != nil {
		return nil, err
	}
	return normalize(id, v)
}

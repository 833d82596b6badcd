package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/dialect/sql/sqlgraph"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
)

// Reader runs the read operations of one entity.
type Reader struct {
	config
	typ *graph.Type
	gen *query.Generator
	drv dialect.Driver
	// eq is drv, or the transaction the reader is bound to.
	eq dialect.ExecQuerier
	tx dialect.Tx
}

// NewReader returns the reader of t over drv.
func NewReader(drv dialect.Driver, t *graph.Type, opts ...Option) (*Reader, error) {
	if drv == nil {
		return nil, errors.New("crud: nil driver")
	}
	gen, err := query.New(t, drv.Dialect())
	if err != nil {
		return nil, err
	}
	return &Reader{config: newConfig(opts), typ: t, gen: gen, drv: drv, eq: drv}, nil
}

// Type returns the entity type of the reader.
func (r *Reader) Type() *graph.Type { return r.typ }

// Generator returns the statement generator of the reader.
func (r *Reader) Generator() *query.Generator { return r.gen }

// Tx returns a copy of the reader that runs its statements in tx.
func (r *Reader) Tx(tx dialect.Tx) *Reader {
	c := *r
	c.eq, c.tx = tx, tx
	return &c
}

// Find returns the first row matching the filter, or nil when no row
// matches.
func (r *Reader) Find(ctx context.Context, f query.FindFilter) (query.Record, error) {
	op := r.gen.Find()
	if op == nil {
		return nil, r.queryErr("find", fmt.Errorf("%s has no find operation", r.typ.Name))
	}
	stmt, err := op.Bind(f)
	if err != nil {
		return nil, r.queryErr("find", err)
	}
	records, err := r.records(ctx, r.eq, "find", stmt)
	if err != nil {
		return nil, r.queryErr("find", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Exists reports whether a row other than excludePK holds value in field.
// A nil excludePK, or a nil pointer, checks every row.
func (r *Reader) Exists(ctx context.Context, field string, value, excludePK any) (bool, error) {
	op, ok := r.gen.Exists(field)
	if !ok {
		return false, r.queryErr("exists", crudgen.InvalidArgumentf(field, "no existence check on %s", r.typ.Name))
	}
	n, err := r.count(ctx, r.eq, "exists", op.Bind(value, excludePK))
	if err != nil {
		return false, r.queryErr("exists", err)
	}
	return n > 0, nil
}

// List returns one page of rows with the totals of the whole result. The
// count and the page are read in one transaction: read-only repeatable read
// on Postgres and MySQL, the default isolation on SQLite. A reader bound to
// a transaction uses that transaction instead.
func (r *Reader) List(ctx context.Context, f query.ListFilter) (*query.Paginate[query.Record], error) {
	data, count, err := r.gen.List().Bind(f)
	if err != nil {
		return nil, r.queryErr("list", err)
	}
	var (
		total   int64
		records []query.Record
	)
	err = r.readTx(ctx, func(eq dialect.ExecQuerier) error {
		var err error
		if total, err = r.count(ctx, eq, "list_count", count); err != nil {
			return err
		}
		records, err = r.records(ctx, eq, "list_data", data)
		return err
	})
	if err != nil {
		return nil, r.queryErr("list", err)
	}
	return query.NewPaginate(f.Pagination, total, records), nil
}

// ListAll returns up to f.Limit rows, DefaultLimit when unset.
func (r *Reader) ListAll(ctx context.Context, f query.ListAllFilter) ([]query.Record, error) {
	stmt, err := r.gen.ListAll().Bind(f)
	if err != nil {
		return nil, r.queryErr("list_all", err)
	}
	key, cached := r.cacheKey("list_all", stmt)
	if cached {
		if records, ok := r.cacheGet(ctx, key); ok {
			return records, nil
		}
	}
	records, err := r.records(ctx, r.eq, "list_all", stmt)
	if err != nil {
		return nil, r.queryErr("list_all", err)
	}
	if cached {
		r.cacheSet(ctx, key, records)
	}
	return records, nil
}

// Count returns the number of rows of the table, soft-deleted rows
// included.
func (r *Reader) Count(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, r.eq, "count", r.gen.Count())
	if err != nil {
		return 0, r.queryErr("count", err)
	}
	return n, nil
}

// beginner is implemented by drivers that accept transaction options.
type beginner interface {
	BeginTx(context.Context, *sql.TxOptions) (dialect.Tx, error)
}

// readTx runs fn in the bound transaction, or in a new read transaction
// that is committed on success and rolled back on failure.
func (r *Reader) readTx(ctx context.Context, fn func(dialect.ExecQuerier) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	var (
		tx  dialect.Tx
		err error
	)
	if b, ok := r.drv.(beginner); ok {
		tx, err = b.BeginTx(ctx, sql.ReadOnlyTxOptions(r.drv.Dialect()))
	} else {
		tx, err = r.drv.Tx(ctx)
	}
	if err != nil {
		return fmt.Errorf("starting transaction: %w", sqlgraph.Classify(err))
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return &crudgen.RollbackError{Err: errors.Join(err, rerr)}
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", sqlgraph.Classify(err))
	}
	return nil
}

func (r *Reader) records(ctx context.Context, eq dialect.ExecQuerier, op string, stmt query.Statement) ([]query.Record, error) {
	r.log(ctx, op, stmt)
	var rows sql.Rows
	if err := eq.Query(ctx, stmt.SQL, stmt.Args, &rows); err != nil {
		return nil, sqlgraph.Classify(err)
	}
	records, err := scanRecords(rows, r.typ)
	if err != nil {
		return nil, sqlgraph.Classify(err)
	}
	return records, nil
}

func (r *Reader) count(ctx context.Context, eq dialect.ExecQuerier, op string, stmt query.Statement) (int64, error) {
	r.log(ctx, op, stmt)
	var rows sql.Rows
	if err := eq.Query(ctx, stmt.SQL, stmt.Args, &rows); err != nil {
		return 0, sqlgraph.Classify(err)
	}
	n, err := sql.ScanInt64(rows)
	if err != nil {
		return 0, sqlgraph.Classify(err)
	}
	return n, nil
}

func (r *Reader) log(ctx context.Context, op string, stmt query.Statement) {
	r.logger.DebugContext(ctx, "crud statement",
		"entity", r.typ.Name,
		"op", op,
		"sql", stmt.SQL,
		"args", len(stmt.Args),
	)
}

func (r *Reader) queryErr(op string, err error) error {
	return crudgen.NewQueryError(r.typ.Name, op, err)
}

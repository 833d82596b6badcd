package crud

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/query"
)

// cacheKey returns the cache key of a statement and whether results of the
// reader are cached. Statements inside a transaction are never cached.
func (r *Reader) cacheKey(op string, stmt query.Statement) (string, bool) {
	if r.cache == nil || r.tx != nil {
		return "", false
	}
	args, err := msgpack.Marshal(stmt.Args)
	if err != nil {
		return "", false
	}
	return crudgen.CacheKey{
		Table:     r.typ.Table,
		Operation: op,
		SQL:       stmt.SQL,
		Args:      hex.EncodeToString(args),
	}.String(), true
}

func (r *Reader) cacheGet(ctx context.Context, key string) ([]query.Record, bool) {
	b, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "cache get failed", "entity", r.typ.Name, "error", err)
		return nil, false
	}
	if b == nil {
		return nil, false
	}
	records, err := decodeRecords(b, r)
	if err != nil {
		r.logger.WarnContext(ctx, "cache decode failed", "entity", r.typ.Name, "error", err)
		return nil, false
	}
	return records, true
}

func (r *Reader) cacheSet(ctx context.Context, key string, records []query.Record) {
	b, err := msgpack.Marshal(records)
	if err != nil {
		r.logger.WarnContext(ctx, "cache encode failed", "entity", r.typ.Name, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, b, r.cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "cache set failed", "entity", r.typ.Name, "error", err)
	}
}

// mutated drops the cached results of the table after a successful
// mutation. A mutation inside a transaction drops them again once the
// transaction commits, as reads outside it may cache the old rows meanwhile.
func (r *Reader) mutated(ctx context.Context) {
	r.invalidate(ctx)
	if r.cache == nil || r.tx == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if !sql.OnCommit(r.tx, func() { r.invalidate(ctx) }) {
		r.logger.WarnContext(ctx, "transaction has no commit hooks, cache may be stale until ttl", "entity", r.typ.Name)
	}
}

// invalidate drops the cached results of the table.
func (r *Reader) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePrefix(ctx, crudgen.TablePrefix(r.typ.Table)); err != nil {
		r.logger.WarnContext(ctx, "cache invalidation failed", "entity", r.typ.Name, "error", err)
	}
}

// decodeRecords decodes cached records and normalizes their values as if
// they were read from the database.
func decodeRecords(b []byte, r *Reader) ([]query.Record, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	records := make([]query.Record, len(raw))
	for i, m := range raw {
		rec := make(query.Record, len(m))
		for k, v := range m {
			f, _ := r.typ.Field(k)
			nv, err := normalize(f, v)
			if err != nil {
				return nil, err
			}
			rec[k] = nv
		}
		records[i] = rec
	}
	return records, nil
}

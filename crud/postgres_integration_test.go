//go:build integration

package crud_test

import (
	"context"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/crud"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
)

const postgresSchema = `
CREATE TABLE tags (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	is_del BOOLEAN NOT NULL DEFAULT FALSE
)`

func openPostgres(t *testing.T) *sql.Driver {
	t.Helper()
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("crudgen"),
		postgres.WithUsername("crudgen"),
		postgres.WithPassword("crudgen"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	drv, err := sql.OpenDriver(dialect.Postgres, "pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	require.NoError(t, drv.Ping(ctx))
	require.NoError(t, drv.Exec(ctx, postgresSchema, []any{}, nil))
	return drv
}

func TestPostgres(t *testing.T) {
	ctx := context.Background()
	drv := openPostgres(t)
	typ, err := graph.NewType(Tag{})
	require.NoError(t, err)
	tags, err := crud.NewTable(sql.NewStatsDriver(drv), typ)
	require.NoError(t, err)

	for _, name := range []string{"rust", "Rustacean", "go"} {
		_, err := tags.Insert(ctx, query.Record{"name": name})
		require.NoError(t, err)
	}
	_, err = tags.Insert(ctx, query.Record{"name": "go"})
	assert.True(t, crudgen.IsAlreadyExists(err), "%v", err)

	page, err := tags.List(ctx, query.ListFilter{Opt: map[string]any{"name": "RUST"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.TotalPage)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Rustacean", page.Data[0]["name"])

	id, ok := crud.Value[int64](page.Data[1], "id")
	require.True(t, ok)
	taken, err := tags.Exists(ctx, "name", "rust", nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = tags.Exists(ctx, "name", "rust", id)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = tags.Delete(ctx, id)
	require.NoError(t, err)
	by, err := tags.Generator().Find().By("name", "rust")
	require.NoError(t, err)
	rec, err := tags.Find(ctx, query.FindFilter{By: &by})
	require.NoError(t, err)
	assert.Equal(t, true, rec["is_del"])
}

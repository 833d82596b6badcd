package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
)

const schemaPath = "/schema/shop.yaml"

// shopFs returns a file system holding the shop schema.
func shopFs(t *testing.T) afero.Fs {
	t.Helper()
	for _, k := range []string{"SCHEMA", "OUT", "PACKAGE", "DIALECT", "DRIVER", "DSN", "SLOW_THRESHOLD", "LOG_LEVEL", "LOG_FORMAT"} {
		key := "CRUDGEN_" + k
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	b, err := os.ReadFile("../../compiler/load/testdata/shop.yaml")
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, schemaPath, b, 0o644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newApp(fs).command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	fs := shopFs(t)
	out, logs, err := execute(t, fs, "generate", "--schema", schemaPath, "--out", "/out/entity", "--log-format", "json")
	require.NoError(t, err)
	assert.Equal(t, "Generated 6 files in /out/entity\n", out)
	assert.Contains(t, logs, `"msg":"generated"`)
	assert.Contains(t, logs, `"package":"entity"`)

	for _, name := range []string{"tag.go", "user_purchased_service.go", "account.go", "tag_stats.go", "schema.go", "client.go"} {
		b, err := afero.ReadFile(fs, filepath.Join("/out/entity", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(b), "package entity")
	}

	_, _, err = execute(t, fs, "generate", "--schema", schemaPath, "--out", "/out/model", "--package", "model")
	require.NoError(t, err)
	b, err := afero.ReadFile(fs, "/out/model/client.go")
	require.NoError(t, err)
	assert.Contains(t, string(b), "package model")
}

func TestGenerateCommandConfigFile(t *testing.T) {
	fs := shopFs(t)
	require.NoError(t, afero.WriteFile(fs, "/project/crudgen.yaml", []byte(`
schema: /schema/shop.yaml
out: /project/internal/entity
log:
  level: warn
`), 0o644))

	out, logs, err := execute(t, fs, "generate", "--config", "/project/crudgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "/project/internal/entity")
	assert.Empty(t, logs, "info logs are below the configured level")
	ok, err := afero.Exists(fs, "/project/internal/entity/tag.go")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateCommandRefusesOverwrite(t *testing.T) {
	fs := shopFs(t)
	require.NoError(t, afero.WriteFile(fs, "/out/entity/tag.go", []byte("package entity\n"), 0o644))

	_, _, err := execute(t, fs, "generate", "--schema", schemaPath, "--out", "/out/entity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	_, _, err = execute(t, fs, "generate", "--schema", schemaPath, "--out", "/out/entity", "--force")
	require.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	fs := shopFs(t)
	_, _, err := execute(t, fs, "sql", "--schema", schemaPath, "--dialect", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported dialect "oracle"`)

	_, _, err = execute(t, fs, "sql", "--schema", "/schema/missing.yaml")
	require.Error(t, err)
}

func TestSQLCommand(t *testing.T) {
	fs := shopFs(t)
	out, _, err := execute(t, fs, "sql", "Tag", "TagStats", "--schema", schemaPath)
	require.NoError(t, err)
	for _, want := range []string{
		"-- Tag (tags)\n",
		"insert: INSERT INTO tags (name) VALUES ($1) RETURNING id\n",
		"update_name: UPDATE tags SET name = $1 WHERE id = $2\n",
		"del: UPDATE tags SET is_del = TRUE WHERE id = $1\n",
		"restore: UPDATE tags SET is_del = FALSE WHERE id = $1\n",
		"real_del: DELETE FROM tags WHERE id = $1\n",
		"name_is_exists: SELECT COUNT(*) FROM tags WHERE name = $1\n",
		"name_is_exists_exclude: SELECT COUNT(*) FROM tags WHERE name = $1 AND id <> $2\n",
		"update: UPDATE tags SET name = $1 WHERE id = $2\n",
		"find: SELECT id, is_del, name FROM tags WHERE 1=1 AND id = $1 LIMIT 1\n",
		"list: SELECT id, is_del, name FROM tags WHERE 1=1 AND is_del = $1 AND name ILIKE $2 ORDER BY id DESC LIMIT 30 OFFSET 0\n",
		"list_all: SELECT id, is_del, name FROM tags WHERE 1=1 AND is_del = $1 AND name ILIKE $2 LIMIT 300\n",
		"count: SELECT COUNT(*) FROM tags\n",
		"\n-- TagStats (tag_stats)\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "INSERT INTO tag_stats", "views are read-only")
	assert.NotContains(t, out, "-- Account")

	out, _, err = execute(t, fs, "sql", "Tag", "--schema", schemaPath, "--dialect", "mysql")
	require.NoError(t, err)
	assert.Contains(t, out, "insert: INSERT INTO tags (name) VALUES (?)\n")
	assert.Contains(t, out, "list_all: SELECT id, is_del, name FROM tags WHERE 1=1 AND is_del = ? AND LOWER(name) LIKE LOWER(?) LIMIT 300\n")

	_, _, err = execute(t, fs, "sql", "Order", "--schema", schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity "Order"`)
}

// sqliteDB creates a database file with the given tables.
func sqliteDB(t *testing.T, ddl string) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "shop.db")
	drv, err := sql.Open(dialect.SQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, drv.Exec(context.Background(), ddl, []any{}, nil))
	require.NoError(t, drv.Close())
	return dsn
}

const shopDDL = `
CREATE TABLE tags (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, is_del BOOLEAN NOT NULL DEFAULT FALSE);
CREATE TABLE user_purchased_services (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	price TEXT NOT NULL,
	state TEXT NOT NULL,
	code TEXT NOT NULL
);
CREATE TABLE accounts (id TEXT PRIMARY KEY, email TEXT NOT NULL, token TEXT NOT NULL, legacy TEXT);
CREATE TABLE tag_stats (tag_id INTEGER PRIMARY KEY, uses INTEGER NOT NULL);
INSERT INTO tags (name, is_del) VALUES ('go', FALSE), ('sql', TRUE);`

func TestCheckCommand(t *testing.T) {
	fs := shopFs(t)
	dsn := sqliteDB(t, shopDDL)

	out, _, err := execute(t, fs, "check", "--schema", schemaPath, "--dialect", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Regexp(t, `ENTITY\s+TABLE\s+ROWS`, out)
	assert.Regexp(t, `Tag\s+tags\s+2\n`, out, "soft-deleted rows are counted")
	assert.Regexp(t, `Account\s+accounts\s+0\n`, out)
	assert.Regexp(t, `TagStats\s+tag_stats\s+0\n`, out)
	assert.Contains(t, out, "Warnings:\n  - accounts.legacy: column is not a field of Account\n")
	assert.Contains(t, out, "queries=8 execs=0")

	_, _, err = execute(t, fs, "check", "Account", "--schema", schemaPath, "--dialect", "sqlite", "--dsn", dsn, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 schema errors")

	out, logs, err := execute(t, fs, "check", "Tag", "--schema", schemaPath, "--dialect", "sqlite", "--dsn", dsn, "--debug", "--log-level", "debug")
	require.NoError(t, err)
	assert.Regexp(t, `Tag\s+tags\s+2\n`, out)
	assert.Contains(t, out, "No issues found")
	assert.NotContains(t, out, "Account")
	assert.NotContains(t, out, "queries=")
	assert.Contains(t, logs, "SELECT COUNT(*) FROM tags")
}

func TestCheckCommandErrors(t *testing.T) {
	fs := shopFs(t)
	_, _, err := execute(t, fs, "check", "--schema", schemaPath, "--dialect", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dsn")

	// The database has none of the tables.
	dsn := sqliteDB(t, "CREATE TABLE other (id INTEGER PRIMARY KEY);")
	_, _, err = execute(t, fs, "check", "--schema", schemaPath, "--dialect", "sqlite", "--dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check Tag")

	dsn = sqliteDB(t, "CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")
	out, _, err := execute(t, fs, "check", "Tag", "--schema", schemaPath, "--dialect", "sqlite", "--dsn", dsn)
	require.Error(t, err)
	assert.Contains(t, out, "tags.is_del: missing column of field Tag.is_del")
}

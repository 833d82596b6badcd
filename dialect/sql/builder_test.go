package sql

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crudgen/dialect"
)

func TestBuilderPlaceholders(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{dialect.Postgres, "UPDATE tags SET name = $1, user_id = $2 WHERE id = $3"},
		{dialect.MySQL, "UPDATE tags SET name = ?, user_id = ? WHERE id = ?"},
		{dialect.SQLite, "UPDATE tags SET name = ?, user_id = ? WHERE id = ?"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			b := Dialect(tt.dialect)
			b.WriteString("UPDATE ").Ident("tags").WriteString(" SET ")
			b.Ident("name").WriteString(" = ").Arg("rust").Comma()
			b.Ident("user_id").WriteString(" = ").Arg(int64(1))
			b.Where(EQ("id", 9))
			query, args := b.Query()
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{"rust", int64(1), 9}, args)
			assert.Equal(t, tt.dialect, b.Dialect())
		})
	}
}

func TestBuilderIdent(t *testing.T) {
	b := Dialect(dialect.Postgres)
	b.IdentComma("id", "user", "name", "order")
	assert.Equal(t, `id, "user", name, "order"`, b.String())

	b = Dialect(dialect.MySQL)
	b.IdentComma("id", "user", "Key")
	assert.Equal(t, "id, `user`, `Key`", b.String())

	assert.True(t, IsReserved("SELECT"))
	assert.False(t, IsReserved("tags"))
}

func TestBuilderArgs(t *testing.T) {
	b := Dialect(dialect.Postgres)
	b.WriteString("VALUES (").Args("a", "b", "c").WriteByte(')')
	query, args := b.Query()
	assert.Equal(t, "VALUES ($1, $2, $3)", query)
	assert.Len(t, args, 3)

	b = Dialect(dialect.SQLite)
	b.WriteString("LIMIT").Pad().Int(30).WriteString(" OFFSET ").Int(60)
	query, args = b.Query()
	assert.Equal(t, "LIMIT 30 OFFSET 60", query)
	assert.Empty(t, args)
	assert.Equal(t, len(query), b.Len())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		p       Predicate
		want    string
		args    []any
	}{
		{"eq", dialect.Postgres, EQ("name", "a"), "name = $1", []any{"a"}},
		{"neq", dialect.MySQL, NEQ("id", 1), "id <> ?", []any{1}},
		{"contains_fold_pg", dialect.Postgres, ContainsFold("name", "rust"), "name ILIKE $1", []any{"%rust%"}},
		{"contains_fold_mysql", dialect.MySQL, ContainsFold("name", "rust"), "LOWER(name) LIKE LOWER(?)", []any{"%rust%"}},
		{"contains_fold_sqlite", dialect.SQLite, ContainsFold("name", "Rust"), "LOWER(name) LIKE LOWER(?)", []any{"%Rust%"}},
		{"contains_fold_wildcards", dialect.Postgres, ContainsFold("name", "50%_off"), "name ILIKE $1", []any{"%50%_off%"}},
		{"between", dialect.Postgres, Between("price", 1, 9), "price BETWEEN $1 AND $2", []any{1, 9}},
		{"custom", dialect.SQLite, P(func(b *Builder) { b.WriteString("1=1") }), "1=1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Dialect(tt.dialect)
			tt.p(b)
			query, args := b.Query()
			assert.Equal(t, tt.want, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestPredicateNumberingContinues(t *testing.T) {
	b := Dialect(dialect.Postgres)
	b.WriteString("SELECT COUNT(*) FROM tags WHERE 1=1")
	b.And(EQ("user_id", 1)).And(ContainsFold("name", "go")).And(Between("id", 1, 5))
	query, args := b.Query()
	assert.Equal(t, "SELECT COUNT(*) FROM tags WHERE 1=1 AND user_id = $1 AND name ILIKE $2 AND id BETWEEN $3 AND $4", query)
	assert.Equal(t, []any{1, "%go%", 1, 5}, args)
}

func BenchmarkBuilder(b *testing.B) {
	columns := make([]string, 12)
	for i := range columns {
		columns[i] = "column_" + strconv.Itoa(i)
	}
	for _, name := range []string{dialect.Postgres, dialect.MySQL} {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sb := Dialect(name)
				sb.WriteString("SELECT ").IdentComma(columns...).WriteString(" FROM tags WHERE 1=1")
				sb.And(EQ("user_id", 1)).And(ContainsFold("name", "go")).And(Between("id", 1, 100))
				sb.WriteString(" ORDER BY id DESC LIMIT ").Int(30)
				_, _ = sb.Query()
			}
		})
	}
}

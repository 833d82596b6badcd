package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/dialect"
)

// TestOpenDB tests the OpenDB function with different dialects.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDialectPrefix(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dialect.Postgres, OpenDB("postgres-traced", db).Dialect())
	assert.Equal(t, "oracle", OpenDB("oracle", db).Dialect())
}

// TestDriverQuery tests query operations.
func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM tags WHERE id = \\$1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("rust"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT name FROM tags WHERE id = $1", []any{1}, rows)
		require.NoError(t, err)
		require.True(t, rows.Next())
		var name string
		require.NoError(t, rows.Scan(&name))
		assert.Equal(t, "rust", name)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mock.ExpectQuery("SELECT").WillReturnError(expectedErr)

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT", []any{}, rows)
		require.ErrorIs(t, err, expectedErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		var rows sql.Rows
		err := drv.Query(context.Background(), "SELECT 1", []any{}, &rows)
		assert.ErrorContains(t, err, "expect *sql.Rows")
		err = drv.Query(context.Background(), "SELECT 1", "x", &Rows{})
		assert.ErrorContains(t, err, "expect []any for args")
	})
}

// TestDriverExec tests execute operations.
func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.MySQL, db)

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO tags \\(name\\) VALUES \\(\\?\\)").
			WithArgs("rust").
			WillReturnResult(sqlmock.NewResult(7, 1))

		var res Result
		err := drv.Exec(context.Background(), "INSERT INTO tags (name) VALUES (?)", []any{"rust"}, &res)
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_nil_result", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM tags").WillReturnResult(sqlmock.NewResult(0, 2))
		err := drv.Exec(context.Background(), "DELETE FROM tags", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		expectedErr := errors.New("constraint violation")
		mock.ExpectExec("DELETE").WillReturnError(expectedErr)

		err := drv.Exec(context.Background(), "DELETE FROM tags", []any{}, nil)
		require.ErrorIs(t, err, expectedErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		var n int64
		err := drv.Exec(context.Background(), "DELETE FROM tags", []any{}, &n)
		assert.ErrorContains(t, err, "expect *sql.Result")
	})
}

// TestDriverTransaction tests transaction operations.
func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("successful_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tags").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Exec(context.Background(), "UPDATE tags SET is_del = TRUE WHERE id = $1", []any{1}, nil))
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tags").WillReturnError(errors.New("error"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.Error(t, tx.Exec(context.Background(), "UPDATE tags SET is_del = TRUE WHERE id = $1", []any{1}, nil))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("read_only_snapshot", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectCommit()

		tx, err := drv.BeginTx(context.Background(), &TxOptions{})
		require.NoError(t, err)
		rows := &Rows{}
		require.NoError(t, tx.Query(context.Background(), "SELECT COUNT(*) FROM tags", []any{}, rows))
		n, err := ScanInt64(rows)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommitHooks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	drv := OpenDB(dialect.SQLite, db)

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		var calls []int
		require.True(t, OnCommit(tx, func() { calls = append(calls, 1) }))
		require.True(t, OnCommit(tx, func() { calls = append(calls, 2) }))
		assert.Empty(t, calls)
		require.NoError(t, tx.Commit())
		assert.Equal(t, []int{1, 2}, calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		called := false
		OnCommit(tx, func() { called = true })
		require.NoError(t, tx.Rollback())
		assert.False(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		called := false
		OnCommit(tx, func() { called = true })
		require.Error(t, tx.Commit())
		assert.False(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrapped", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := NewStatsDriver(drv).Tx(ctx)
		require.NoError(t, err)
		called := false
		require.True(t, OnCommit(tx, func() { called = true }))
		require.NoError(t, tx.Commit())
		assert.True(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScanInt64(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	query := func() *Rows {
		rows := &Rows{}
		require.NoError(t, drv.Query(context.Background(), "SELECT COUNT(*) FROM tags", []any{}, rows))
		return rows
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}))
	_, err = ScanInt64(query())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1).AddRow(2))
	_, err = ScanInt64(query())
	assert.ErrorContains(t, err, "exactly one row")

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("x"))
	_, err = ScanInt64(query())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadOnlyTxOptions(t *testing.T) {
	for _, name := range []string{dialect.Postgres, dialect.MySQL} {
		opts := ReadOnlyTxOptions(name)
		assert.True(t, opts.ReadOnly, name)
		assert.Equal(t, LevelRepeatableRead, opts.Isolation, name)
	}
	opts := ReadOnlyTxOptions(dialect.SQLite)
	assert.False(t, opts.ReadOnly)
	assert.Equal(t, LevelDefault, opts.Isolation)
}

// TestContextCancellation tests that context cancellation is respected.
func TestContextCancellation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	mock.ExpectQuery("SELECT").WillReturnError(context.Canceled)
	rows := &Rows{}
	err = drv.Query(ctx, "SELECT 1", []any{}, rows)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)
	mock.ExpectPing()
	require.NoError(t, drv.Ping(context.Background()))
	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, drv.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

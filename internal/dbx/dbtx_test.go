package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const (
	selectCells = `SELECT cells FROM sheet_rows WHERE table_name = ? AND position = ?`
	updateCells = `UPDATE sheet_rows SET cells = ? WHERE table_name = ? AND position = ?`
)

// setupDB opens a private in-memory database holding one contacts row.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sheet_rows (
		table_name TEXT   NOT NULL,
		position   BIGINT NOT NULL,
		cells      TEXT   NOT NULL,
		PRIMARY KEY (table_name, position)
	);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sheet_rows(table_name, position, cells) VALUES ('contacts', 0, '["c-1","NUEVO"]')`)
	require.NoError(t, err)
	return db
}

func cellsAt(t *testing.T, db *sql.DB, table string, pos int64) string {
	t.Helper()
	var raw string
	require.NoError(t, db.QueryRow(selectCells, table, pos).Scan(&raw))
	return raw
}

// patchState rewrites the contacts row inside tx the way the row store
// patches a cell range: read, modify, write.
func patchState(ctx context.Context, tx DBTX, state string) error {
	var raw string
	if err := tx.QueryRowContext(ctx, selectCells, "contacts", 0).Scan(&raw); err != nil {
		return err
	}
	raw = strings.Replace(raw, "NUEVO", state, 1)
	_, err := tx.ExecContext(ctx, updateCells, raw, "contacts", 0)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return patchState(ctx, tx, "CONFIRMADO")
	})
	require.NoError(t, err)
	require.Equal(t, `["c-1","CONFIRMADO"]`, cellsAt(t, db, "contacts", 0), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, patchState(ctx, tx, "RECHAZA"))
		return errors.New("width mismatch")
	})
	require.Error(t, err)

	require.Equal(t, `["c-1","NUEVO"]`, cellsAt(t, db, "contacts", 0), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, `["c-1","NUEVO"]`, cellsAt(t, db, "contacts", 0), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, patchState(ctx, tx, "LLAMADO"))
		panic("kaput")
	})
}

func TestWithTx_MissingRowSurfacesNoRows(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		var raw string
		return tx.QueryRowContext(ctx, selectCells, "contacts", 7).Scan(&raw)
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestRebind(t *testing.T) {
	require.Equal(t, selectCells, Rebind(DialectSQLite, selectCells))
	require.Equal(t,
		`UPDATE sheet_rows SET cells = $1 WHERE table_name = $2 AND position = $3`,
		Rebind(DialectPostgres, updateCells))
}

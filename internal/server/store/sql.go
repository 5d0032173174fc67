package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/dbx"
	"github.com/dmitrijs2005/gophreach/internal/server/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
)

// appendAttempts bounds retries when two appends race for the same position.
const appendAttempts = 5

const (
	scanQuery = `SELECT position, cells FROM sheet_rows
		 WHERE table_name = ?
		 ORDER BY position`

	appendQuery = `INSERT INTO sheet_rows (table_name, position, cells)
		 SELECT CAST(? AS TEXT), COALESCE(MAX(position) + 1, 0), CAST(? AS TEXT)
		 FROM sheet_rows WHERE table_name = ?`

	updateQuery = `UPDATE sheet_rows SET cells = ?
		 WHERE table_name = ? AND position = ?`

	selectRowQuery = `SELECT cells FROM sheet_rows
		 WHERE table_name = ? AND position = ?`
)

// SQLStore keeps every table in a single sheet_rows relation, one JSON
// encoded row per position. Positions are dense and start at zero, so a
// position is also the row address.
type SQLStore struct {
	db      *sql.DB
	dialect dbx.Dialect
}

func NewSQLStore(db *sql.DB, dialect dbx.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema.
func (s *SQLStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	dialect := "pgx"
	if s.dialect == dbx.DialectSQLite {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return common.StoreError("migrate", err)
	}
	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return common.StoreError("migrate", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) q(query string) string {
	return dbx.Rebind(s.dialect, query)
}

func (s *SQLStore) Scan(ctx context.Context, t Table) ([]Row, error) {
	if _, err := width(t); err != nil {
		return nil, err
	}

	rs, err := s.db.QueryContext(ctx, s.q(scanQuery), string(t))
	if err != nil {
		return nil, common.StoreError("scan "+string(t), err)
	}
	defer rs.Close()

	var rows []Row
	for rs.Next() {
		var (
			pos int64
			raw string
		)
		if err := rs.Scan(&pos, &raw); err != nil {
			return nil, common.StoreError("scan "+string(t), err)
		}
		cells, err := decodeCells(raw)
		if err != nil {
			return nil, common.StoreError("scan "+string(t), err)
		}
		rows = append(rows, Row{Address: RowAddress(pos), Cells: cells})
	}
	if err := rs.Err(); err != nil {
		return nil, common.StoreError("scan "+string(t), err)
	}
	return rows, nil
}

func (s *SQLStore) AppendRow(ctx context.Context, t Table, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	raw, err := encodeCells(cells)
	if err != nil {
		return common.StoreError("append "+string(t), err)
	}

	for attempt := 1; ; attempt++ {
		_, err = s.db.ExecContext(ctx, s.q(appendQuery), string(t), raw, string(t))
		if err == nil {
			return nil
		}
		if !isConflict(err) || attempt == appendAttempts {
			return common.StoreError("append "+string(t), err)
		}
	}
}

func (s *SQLStore) UpdateRow(ctx context.Context, t Table, addr RowAddress, row []string) error {
	cells, err := normalize(t, row)
	if err != nil {
		return err
	}
	raw, err := encodeCells(cells)
	if err != nil {
		return common.StoreError("update "+string(t), err)
	}
	return s.overwrite(ctx, s.db, t, addr, raw)
}

func (s *SQLStore) UpdateCellRange(ctx context.Context, t Table, addr RowAddress, cols ColumnRange, values []string) error {
	if err := checkRange(t, cols, values); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := selectRowQuery
		if s.dialect == dbx.DialectPostgres {
			query += " FOR UPDATE"
		}

		var raw string
		err := tx.QueryRowContext(ctx, s.q(query), string(t), int64(addr)).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return errNoRow(t, addr)
		}
		if err != nil {
			return common.StoreError("update range "+string(t), err)
		}

		cells, err := decodeCells(raw)
		if err != nil {
			return common.StoreError("update range "+string(t), err)
		}
		if cells, err = normalize(t, cells); err != nil {
			return err
		}
		copy(cells[cols.Start:cols.End], values)

		patched, err := encodeCells(cells)
		if err != nil {
			return common.StoreError("update range "+string(t), err)
		}
		return s.overwrite(ctx, tx, t, addr, patched)
	})
}

func (s *SQLStore) overwrite(ctx context.Context, db dbx.DBTX, t Table, addr RowAddress, raw string) error {
	res, err := db.ExecContext(ctx, s.q(updateQuery), raw, string(t), int64(addr))
	if err != nil {
		return common.StoreError("update "+string(t), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.StoreError("update "+string(t), err)
	}
	if n == 0 {
		return errNoRow(t, addr)
	}
	return nil
}

func encodeCells(cells []string) (string, error) {
	b, err := json.Marshal(cells)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("decode cells: %w", err)
	}
	return cells, nil
}

// isConflict reports a primary key violation on either dialect.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

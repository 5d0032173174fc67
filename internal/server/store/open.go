package store

import (
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Drivers understood by Open.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverWorkbook = "xlsx"
)

// Options selects and configures a backend.
type Options struct {
	Driver       string
	DSN          string
	WorkbookPath string
}

// Backend is a Store that owns resources.
type Backend interface {
	Store
	io.Closer
}

func (m *MemoryStore) Close() error { return nil }

// Open builds the backend named by opts.Driver. SQL backends are migrated
// before they are returned.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverWorkbook:
		return OpenWorkbook(opts.WorkbookPath)
	case DriverPostgres:
		return openSQL(ctx, "pgx", dbx.DialectPostgres, opts.DSN, 0)
	case DriverSQLite:
		return openSQL(ctx, "sqlite", dbx.DialectSQLite, opts.DSN, 1)
	default:
		return nil, common.Validationf("unknown store driver %q", opts.Driver)
	}
}

func openSQL(ctx context.Context, driver string, dialect dbx.Dialect, dsn string, maxConns int) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, common.StoreError("open "+driver, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.StoreError("ping "+driver, err)
	}

	s := NewSQLStore(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

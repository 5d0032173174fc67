// Package store is the record store adapter: positional, append-or-overwrite
// access to a fixed set of tables with no transactions, locks or indexes.
//
// Every read is a full scan. A RowAddress is only meaningful relative to the
// scan that produced it; callers must not keep addresses across operations.
package store

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/common"
)

// Table names a logical table.
type Table string

const (
	Contacts       Table = "contacts"
	Assignments    Table = "assignments"
	Activity       Table = "activity"
	HistoricalBase Table = "historical_base"
	Users          Table = "users"
	Templates      Table = "templates"
)

// Headers fixes the column layout of every table. The workbook backend
// writes them as the first sheet row.
var Headers = map[Table][]string{
	Contacts: {
		"id", "national_id", "full_name", "phone", "email", "locality",
		"referred_by_id", "referred_by_name", "state", "notes",
		"created_at", "updated_at", "origin", "last_managed_at",
	},
	Assignments: {
		"assignment_id", "contact_id", "national_id", "user_id",
		"assigned_by_user_id", "assigned_at", "active",
	},
	Activity: {
		"activity_id", "timestamp", "contact_id", "national_id", "user_id",
		"kind", "detail", "new_state", "person_response", "note",
	},
	HistoricalBase: {
		"national_id", "full_name", "phone", "nuip", "department", "municipality",
		"polling_place", "address", "table", "call_outcome", "messaging_outcome",
		"note", "managed_by", "managed_at",
	},
	Users: {
		"user_id", "name", "email", "role", "password_hash", "active",
		"created_at", "last_login_at",
	},
	Templates: {"id", "name", "content"},
}

// Tables lists every table in a stable order.
var Tables = []Table{Contacts, Assignments, Activity, HistoricalBase, Users, Templates}

// RowAddress is the 0-based position of a data row within its table, as
// observed by a scan.
type RowAddress int

// Row is one scanned row.
type Row struct {
	Address RowAddress
	Cells   []string
}

// Cell returns the i-th cell or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// ColumnRange is the half-open column interval [Start, End).
type ColumnRange struct {
	Start int
	End   int
}

func (c ColumnRange) Width() int { return c.End - c.Start }

// Store is implemented by every backend.
type Store interface {
	Scan(ctx context.Context, table Table) ([]Row, error)
	AppendRow(ctx context.Context, table Table, row []string) error
	UpdateRow(ctx context.Context, table Table, addr RowAddress, row []string) error
	UpdateCellRange(ctx context.Context, table Table, addr RowAddress, cols ColumnRange, values []string) error
}

func width(t Table) (int, error) {
	h, ok := Headers[t]
	if !ok {
		return 0, common.Validationf("unknown table %q", t)
	}
	return len(h), nil
}

// normalize checks the row against the table width and pads it with empty
// cells so that overwrites never leave stale trailing values.
func normalize(t Table, row []string) ([]string, error) {
	w, err := width(t)
	if err != nil {
		return nil, err
	}
	if len(row) > w {
		return nil, common.Validationf("table %s has %d columns, got %d values", t, w, len(row))
	}
	out := make([]string, w)
	copy(out, row)
	return out, nil
}

func checkRange(t Table, cols ColumnRange, values []string) error {
	w, err := width(t)
	if err != nil {
		return err
	}
	if cols.Start < 0 || cols.End > w || cols.Width() <= 0 {
		return common.Validationf("column range [%d,%d) outside table %s", cols.Start, cols.End, t)
	}
	if len(values) != cols.Width() {
		return common.Validationf("column range [%d,%d) needs %d values, got %d", cols.Start, cols.End, cols.Width(), len(values))
	}
	return nil
}

func errNoRow(t Table, addr RowAddress) error {
	return common.NotFoundf("no row %d in table %s", addr, t)
}

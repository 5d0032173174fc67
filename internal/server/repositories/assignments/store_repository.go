package assignments

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

const (
	colID = iota
	colContactID
	colNationalID
	colUserID
	colAssignedBy
	colAssignedAt
	colActive
)

var activeColumn = store.ColumnRange{Start: colActive, End: colActive + 1}

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.s.Scan(ctx, store.Assignments)
	if err != nil {
		return nil, err
	}
	return newSnapshot(rows), nil
}

func (r *StoreRepository) Append(ctx context.Context, a models.Assignment) error {
	return r.s.AppendRow(ctx, store.Assignments, encode(a))
}

func (r *StoreRepository) SetActive(ctx context.Context, addr store.RowAddress, active bool) error {
	return r.s.UpdateCellRange(ctx, store.Assignments, addr, activeColumn, []string{store.FormatBool(active)})
}

func decode(r store.Row) models.Assignment {
	return models.Assignment{
		ID:               r.Cell(colID),
		ContactID:        r.Cell(colContactID),
		NationalID:       r.Cell(colNationalID),
		AssigneeUserID:   r.Cell(colUserID),
		AssignedByUserID: r.Cell(colAssignedBy),
		AssignedAt:       timex.ParseTimestamp(r.Cell(colAssignedAt)),
		Active:           store.ParseBool(r.Cell(colActive)),
	}
}

func encode(a models.Assignment) []string {
	return []string{
		colID:         a.ID,
		colContactID:  a.ContactID,
		colNationalID: a.NationalID,
		colUserID:     a.AssigneeUserID,
		colAssignedBy: a.AssignedByUserID,
		colAssignedAt: timex.FormatTimestamp(a.AssignedAt),
		colActive:     store.FormatBool(a.Active),
	}
}

package base

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

const (
	colNationalID = iota
	colFullName
	colPhone
	colNUIP
	colDepartment
	colMunicipality
	colPollingPlace
	colAddress
	colTable
	colCallOutcome
	colMessagingOutcome
	colNote
	colManagedBy
	colManagedAt
)

var outcomeColumns = store.ColumnRange{Start: colCallOutcome, End: colManagedAt + 1}

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.s.Scan(ctx, store.HistoricalBase)
	if err != nil {
		return nil, err
	}
	return newSnapshot(rows), nil
}

func (r *StoreRepository) WriteOutcome(ctx context.Context, addr store.RowAddress, rec models.HistoricalRecord) error {
	values := []string{
		rec.CallOutcome,
		rec.MessagingOutcome,
		rec.Note,
		rec.ManagedByDisplayName,
		timex.FormatTimestamp(rec.LastManagedAt),
	}
	return r.s.UpdateCellRange(ctx, store.HistoricalBase, addr, outcomeColumns, values)
}

func decode(r store.Row) models.HistoricalRecord {
	return models.HistoricalRecord{
		NationalID:           r.Cell(colNationalID),
		FullName:             r.Cell(colFullName),
		Phone:                r.Cell(colPhone),
		NUIP:                 r.Cell(colNUIP),
		Department:           r.Cell(colDepartment),
		Municipality:         r.Cell(colMunicipality),
		PollingPlace:         r.Cell(colPollingPlace),
		Address:              r.Cell(colAddress),
		Table:                r.Cell(colTable),
		CallOutcome:          r.Cell(colCallOutcome),
		MessagingOutcome:     r.Cell(colMessagingOutcome),
		Note:                 r.Cell(colNote),
		ManagedByDisplayName: r.Cell(colManagedBy),
		LastManagedAt:        timex.ParseTimestamp(r.Cell(colManagedAt)),
	}
}

// Encode renders rec as a full base row. The server never appends to the
// base; this feeds fixtures and imports.
func Encode(rec models.HistoricalRecord) []string {
	return []string{
		colNationalID:       rec.NationalID,
		colFullName:         rec.FullName,
		colPhone:            rec.Phone,
		colNUIP:             rec.NUIP,
		colDepartment:       rec.Department,
		colMunicipality:     rec.Municipality,
		colPollingPlace:     rec.PollingPlace,
		colAddress:          rec.Address,
		colTable:            rec.Table,
		colCallOutcome:      rec.CallOutcome,
		colMessagingOutcome: rec.MessagingOutcome,
		colNote:             rec.Note,
		colManagedBy:        rec.ManagedByDisplayName,
		colManagedAt:        timex.FormatTimestamp(rec.LastManagedAt),
	}
}

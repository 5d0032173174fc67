package contacts

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

const (
	colID = iota
	colNationalID
	colFullName
	colPhone
	colEmail
	colLocality
	colReferredByID
	colReferredByName
	colState
	colNotes
	colCreatedAt
	colUpdatedAt
	colOrigin
	colLastManagedAt
)

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.s.Scan(ctx, store.Contacts)
	if err != nil {
		return nil, err
	}
	return newSnapshot(rows), nil
}

func (r *StoreRepository) Append(ctx context.Context, c models.Contact) error {
	return r.s.AppendRow(ctx, store.Contacts, encode(c))
}

func (r *StoreRepository) Update(ctx context.Context, addr store.RowAddress, c models.Contact) error {
	return r.s.UpdateRow(ctx, store.Contacts, addr, encode(c))
}

func decode(r store.Row) models.Contact {
	return models.Contact{
		ID:                  r.Cell(colID),
		NationalID:          r.Cell(colNationalID),
		FullName:            r.Cell(colFullName),
		Phone:               r.Cell(colPhone),
		Email:               r.Cell(colEmail),
		Locality:            r.Cell(colLocality),
		ReferredByContactID: r.Cell(colReferredByID),
		ReferredByName:      r.Cell(colReferredByName),
		State:               models.StateOrNew(r.Cell(colState)),
		Notes:               r.Cell(colNotes),
		CreatedAt:           timex.ParseTimestamp(r.Cell(colCreatedAt)),
		UpdatedAt:           timex.ParseTimestamp(r.Cell(colUpdatedAt)),
		Origin:              models.Origin(r.Cell(colOrigin)),
		LastManagedAt:       timex.ParseTimestamp(r.Cell(colLastManagedAt)),
	}
}

func encode(c models.Contact) []string {
	return []string{
		colID:             c.ID,
		colNationalID:     c.NationalID,
		colFullName:       c.FullName,
		colPhone:          c.Phone,
		colEmail:          c.Email,
		colLocality:       c.Locality,
		colReferredByID:   c.ReferredByContactID,
		colReferredByName: c.ReferredByName,
		colState:          string(c.State),
		colNotes:          c.Notes,
		colCreatedAt:      timex.FormatTimestamp(c.CreatedAt),
		colUpdatedAt:      timex.FormatTimestamp(c.UpdatedAt),
		colOrigin:         string(c.Origin),
		colLastManagedAt:  timex.FormatTimestamp(c.LastManagedAt),
	}
}

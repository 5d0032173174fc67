package activity

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

const (
	colID = iota
	colTimestamp
	colContactID
	colNationalID
	colUserID
	colKind
	colDetail
	colNewState
	colPersonResponse
	colNote
)

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Append(ctx context.Context, a models.Activity) error {
	return r.s.AppendRow(ctx, store.Activity, []string{
		colID:             a.ID,
		colTimestamp:      timex.FormatTimestamp(a.Timestamp),
		colContactID:      a.ContactID,
		colNationalID:     a.NationalID,
		colUserID:         a.ActorUserID,
		colKind:           string(a.Kind),
		colDetail:         a.Detail,
		colNewState:       string(a.NewState),
		colPersonResponse: a.PersonResponse,
		colNote:           a.Note,
	})
}

func (r *StoreRepository) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.s.Scan(ctx, store.Activity)
	if err != nil {
		return nil, err
	}

	out := make([]models.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Activity{
			ID:             row.Cell(colID),
			Timestamp:      timex.ParseTimestamp(row.Cell(colTimestamp)),
			ContactID:      row.Cell(colContactID),
			NationalID:     row.Cell(colNationalID),
			ActorUserID:    row.Cell(colUserID),
			Kind:           models.ActivityKind(row.Cell(colKind)),
			Detail:         row.Cell(colDetail),
			NewState:       models.State(row.Cell(colNewState)),
			PersonResponse: row.Cell(colPersonResponse),
			Note:           row.Cell(colNote),
		})
	}
	return out, nil
}

package templates

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.s.Scan(ctx, store.Templates)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{byID: make(map[string]int, len(rows))}
	for _, row := range rows {
		t := models.Template{ID: row.Cell(0), Name: row.Cell(1), Content: row.Cell(2)}
		if _, ok := snap.byID[t.ID]; !ok && t.ID != "" {
			snap.byID[t.ID] = len(snap.templates)
		}
		snap.templates = append(snap.templates, t)
		snap.addrs = append(snap.addrs, row.Address)
	}
	return snap, nil
}

func (r *StoreRepository) Append(ctx context.Context, t models.Template) error {
	return r.s.AppendRow(ctx, store.Templates, []string{t.ID, t.Name, t.Content})
}

func (r *StoreRepository) Update(ctx context.Context, addr store.RowAddress, t models.Template) error {
	return r.s.UpdateRow(ctx, store.Templates, addr, []string{t.ID, t.Name, t.Content})
}

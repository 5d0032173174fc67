// Package templates stores message and call-script templates.
package templates

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Append(ctx context.Context, t models.Template) error
	Update(ctx context.Context, addr store.RowAddress, t models.Template) error
}

type Snapshot struct {
	templates []models.Template
	addrs     []store.RowAddress
	byID      map[string]int
}

func (s *Snapshot) All() []models.Template {
	return s.templates
}

func (s *Snapshot) ByID(id string) (models.Template, store.RowAddress, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Template{}, 0, false
	}
	return s.templates[i], s.addrs[i], true
}

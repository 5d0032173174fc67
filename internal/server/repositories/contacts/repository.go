// Package contacts reads and writes registrants in the contacts table.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type Repository interface {
	// Snapshot scans the table once. The result is only valid for the
	// operation that took it.
	Snapshot(ctx context.Context) (*Snapshot, error)
	Append(ctx context.Context, c models.Contact) error
	Update(ctx context.Context, addr store.RowAddress, c models.Contact) error
}

// Snapshot indexes one scan of the contacts table by id and national id.
// The first row wins when a key repeats.
type Snapshot struct {
	contacts     []models.Contact
	addrs        []store.RowAddress
	byID         map[string]int
	byNationalID map[string]int
}

func newSnapshot(rows []store.Row) *Snapshot {
	s := &Snapshot{
		contacts:     make([]models.Contact, 0, len(rows)),
		addrs:        make([]store.RowAddress, 0, len(rows)),
		byID:         make(map[string]int, len(rows)),
		byNationalID: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		c := decode(r)
		i := len(s.contacts)
		s.contacts = append(s.contacts, c)
		s.addrs = append(s.addrs, r.Address)
		if _, ok := s.byID[c.ID]; !ok && c.ID != "" {
			s.byID[c.ID] = i
		}
		if _, ok := s.byNationalID[c.NationalID]; !ok && c.NationalID != "" {
			s.byNationalID[c.NationalID] = i
		}
	}
	return s
}

// All returns contacts in scan order.
func (s *Snapshot) All() []models.Contact {
	return s.contacts
}

func (s *Snapshot) Len() int { return len(s.contacts) }

func (s *Snapshot) ByID(id string) (models.Contact, store.RowAddress, bool) {
	return s.lookup(s.byID, id)
}

func (s *Snapshot) ByNationalID(nationalID string) (models.Contact, store.RowAddress, bool) {
	return s.lookup(s.byNationalID, nationalID)
}

func (s *Snapshot) lookup(index map[string]int, key string) (models.Contact, store.RowAddress, bool) {
	i, ok := index[key]
	if !ok {
		return models.Contact{}, 0, false
	}
	return s.contacts[i], s.addrs[i], true
}

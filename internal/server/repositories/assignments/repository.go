// Package assignments stores which user is responsible for which contact.
package assignments

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Append(ctx context.Context, a models.Assignment) error
	SetActive(ctx context.Context, addr store.RowAddress, active bool) error
}

// Snapshot is one scan of the assignments table.
type Snapshot struct {
	assignments []models.Assignment
	addrs       []store.RowAddress
	byID        map[string]int
}

func newSnapshot(rows []store.Row) *Snapshot {
	s := &Snapshot{
		assignments: make([]models.Assignment, 0, len(rows)),
		addrs:       make([]store.RowAddress, 0, len(rows)),
		byID:        make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		a := decode(r)
		if _, ok := s.byID[a.ID]; !ok && a.ID != "" {
			s.byID[a.ID] = len(s.assignments)
		}
		s.assignments = append(s.assignments, a)
		s.addrs = append(s.addrs, r.Address)
	}
	return s
}

func (s *Snapshot) All() []models.Assignment {
	return s.assignments
}

func (s *Snapshot) ByID(id string) (models.Assignment, store.RowAddress, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Assignment{}, 0, false
	}
	return s.assignments[i], s.addrs[i], true
}

// ActiveFor returns userID's active assignments in scan order.
func (s *Snapshot) ActiveFor(userID string) []models.Assignment {
	var out []models.Assignment
	for _, a := range s.assignments {
		if a.Active && a.AssigneeUserID == userID {
			out = append(out, a)
		}
	}
	return out
}

// Claimed is the set of national ids referenced by any assignment, active
// or not.
func (s *Snapshot) Claimed() map[string]struct{} {
	claimed := make(map[string]struct{}, len(s.assignments))
	for _, a := range s.assignments {
		if a.NationalID != "" {
			claimed[a.NationalID] = struct{}{}
		}
	}
	return claimed
}

// Covers reports whether userID holds an active assignment for the contact
// identified by either key.
func (s *Snapshot) Covers(userID, contactID, nationalID string) bool {
	for _, a := range s.assignments {
		if a.Covers(userID, contactID, nationalID) {
			return true
		}
	}
	return false
}

// ActiveByUser groups active assignments by assignee.
func (s *Snapshot) ActiveByUser() map[string][]models.Assignment {
	out := make(map[string][]models.Assignment)
	for _, a := range s.assignments {
		if a.Active {
			out[a.AssigneeUserID] = append(out[a.AssigneeUserID], a)
		}
	}
	return out
}

// Package users stores server accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/textx"
)

type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Create(ctx context.Context, u models.User) error
	TouchLogin(ctx context.Context, addr store.RowAddress, at time.Time) error
}

// Snapshot is one scan of the users table. Emails are matched case-folded.
type Snapshot struct {
	users   []models.User
	addrs   []store.RowAddress
	byID    map[string]int
	byEmail map[string]int
}

func newSnapshot(rows []store.Row) *Snapshot {
	s := &Snapshot{
		users:   make([]models.User, 0, len(rows)),
		addrs:   make([]store.RowAddress, 0, len(rows)),
		byID:    make(map[string]int, len(rows)),
		byEmail: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		u := decode(r)
		i := len(s.users)
		s.users = append(s.users, u)
		s.addrs = append(s.addrs, r.Address)
		if _, ok := s.byID[u.ID]; !ok && u.ID != "" {
			s.byID[u.ID] = i
		}
		key := textx.Fold(u.Email)
		if _, ok := s.byEmail[key]; !ok && key != "" {
			s.byEmail[key] = i
		}
	}
	return s
}

func (s *Snapshot) All() []models.User {
	return s.users
}

func (s *Snapshot) ByID(id string) (models.User, store.RowAddress, bool) {
	return s.lookup(s.byID, id)
}

func (s *Snapshot) ByEmail(email string) (models.User, store.RowAddress, bool) {
	return s.lookup(s.byEmail, textx.Fold(email))
}

func (s *Snapshot) lookup(index map[string]int, key string) (models.User, store.RowAddress, bool) {
	i, ok := index[key]
	if !ok {
		return models.User{}, 0, false
	}
	return s.users[i], s.addrs[i], true
}

// Package repomanager vends the store-backed repositories used by the
// services, all bound to one record store.
package repomanager

import (
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/activity"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/assignments"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/base"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/templates"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type RepositoryManager interface {
	Store() store.Store
	Contacts() contacts.Repository
	Base() base.Repository
	Assignments() assignments.Repository
	Activity() activity.Repository
	Users() users.Repository
	Templates() templates.Repository
}

// StoreRepositoryManager binds every repository to the same store.
type StoreRepositoryManager struct {
	s store.Store
}

func NewStoreRepositoryManager(s store.Store) *StoreRepositoryManager {
	return &StoreRepositoryManager{s: s}
}

func (m *StoreRepositoryManager) Store() store.Store { return m.s }

func (m *StoreRepositoryManager) Contacts() contacts.Repository {
	return contacts.NewStoreRepository(m.s)
}

func (m *StoreRepositoryManager) Base() base.Repository {
	return base.NewStoreRepository(m.s)
}

func (m *StoreRepositoryManager) Assignments() assignments.Repository {
	return assignments.NewStoreRepository(m.s)
}

func (m *StoreRepositoryManager) Activity() activity.Repository {
	return activity.NewStoreRepository(m.s)
}

func (m *StoreRepositoryManager) Users() users.Repository {
	return users.NewStoreRepository(m.s)
}

func (m *StoreRepositoryManager) Templates() templates.Repository {
	return templates.NewStoreRepository(m.s)
}

package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

const (
	colID = iota
	colName
	colEmail
	colRole
	colPasswordHash
	colActive
	colCreatedAt
	colLastLoginAt
)

var lastLoginColumn = store.ColumnRange{Start: colLastLoginAt, End: colLastLoginAt + 1}

type StoreRepository struct {
	s store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{s: s}
}

func (r *StoreRepository) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := r.s.Scan(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	return newSnapshot(rows), nil
}

func (r *StoreRepository) Create(ctx context.Context, u models.User) error {
	return r.s.AppendRow(ctx, store.Users, []string{
		colID:           u.ID,
		colName:         u.Name,
		colEmail:        u.Email,
		colRole:         string(u.Role),
		colPasswordHash: u.PasswordHash,
		colActive:       store.FormatBool(u.Active),
		colCreatedAt:    timex.FormatTimestamp(u.CreatedAt),
		colLastLoginAt:  timex.FormatTimestamp(u.LastLoginAt),
	})
}

func (r *StoreRepository) TouchLogin(ctx context.Context, addr store.RowAddress, at time.Time) error {
	return r.s.UpdateCellRange(ctx, store.Users, addr, lastLoginColumn, []string{timex.FormatTimestamp(at)})
}

func decode(r store.Row) models.User {
	return models.User{
		ID:           r.Cell(colID),
		Name:         r.Cell(colName),
		Email:        r.Cell(colEmail),
		Role:         models.Role(r.Cell(colRole)),
		PasswordHash: r.Cell(colPasswordHash),
		Active:       store.ParseBool(r.Cell(colActive)),
		CreatedAt:    timex.ParseTimestamp(r.Cell(colCreatedAt)),
		LastLoginAt:  timex.ParseTimestamp(r.Cell(colLastLoginAt)),
	}
}

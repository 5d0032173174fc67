// Package base reads the externally sourced historical base and writes
// outcomes back to it. Rows are never created or removed here.
package base

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	// WriteOutcome overwrites only the outcome columns (call outcome through
	// managed-at) of the row at addr with the values carried by rec.
	WriteOutcome(ctx context.Context, addr store.RowAddress, rec models.HistoricalRecord) error
}

// Snapshot is one scan of the historical base, keyed by national id.
type Snapshot struct {
	records      []models.HistoricalRecord
	addrs        []store.RowAddress
	byNationalID map[string]int
}

func newSnapshot(rows []store.Row) *Snapshot {
	s := &Snapshot{
		records:      make([]models.HistoricalRecord, 0, len(rows)),
		addrs:        make([]store.RowAddress, 0, len(rows)),
		byNationalID: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		rec := decode(r)
		if rec.NationalID == "" {
			continue
		}
		if _, ok := s.byNationalID[rec.NationalID]; !ok {
			s.byNationalID[rec.NationalID] = len(s.records)
		}
		s.records = append(s.records, rec)
		s.addrs = append(s.addrs, r.Address)
	}
	return s
}

// All returns records in scan order. Rows without a national id are skipped.
func (s *Snapshot) All() []models.HistoricalRecord {
	return s.records
}

func (s *Snapshot) Len() int { return len(s.records) }

func (s *Snapshot) ByNationalID(nationalID string) (models.HistoricalRecord, store.RowAddress, bool) {
	i, ok := s.byNationalID[nationalID]
	if !ok {
		return models.HistoricalRecord{}, 0, false
	}
	return s.records[i], s.addrs[i], true
}

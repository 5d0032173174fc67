package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

// LedgerService appends to and reads from the activity ledger.
type LedgerService struct {
	clock
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLedgerService(m repomanager.RepositoryManager, logger logging.Logger) *LedgerService {
	return &LedgerService{clock: defaultClock(), repomanager: m, logger: logger}
}

// Record appends a, filling in the id and timestamp when unset.
func (s *LedgerService) Record(ctx context.Context, a models.Activity) error {
	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	return s.repomanager.Activity().Append(ctx, a)
}

// recordQuietly appends a and only logs a failure. The ledger write follows a
// primary write that already succeeded and must not be reported as failed.
func (s *LedgerService) recordQuietly(ctx context.Context, a models.Activity) {
	if err := s.Record(ctx, a); err != nil {
		s.logger.Error(ctx, "ledger append failed", "kind", a.Kind, "contact_id", a.ContactID, "national_id", a.NationalID, "error", err)
	}
}

// List returns entries for the contact addressed by key (contact id or
// national id), newest first. Non-administrators must hold an active
// assignment for it.
func (s *LedgerService) List(ctx context.Context, id *models.Identity, key string) ([]models.Activity, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	if !id.IsAdmin() {
		snap, err := s.repomanager.Assignments().Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if !snap.Covers(id.UserID, key, key) {
			return nil, forbiddenContact(key)
		}
	}

	all, err := s.repomanager.Activity().List(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Activity
	for i := len(all) - 1; i >= 0; i-- {
		a := all[i]
		if key == "" || a.ContactID == key || a.NationalID == key {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Timeline counts ledger entries per date, oldest date first.
func (s *LedgerService) Timeline(ctx context.Context) ([]models.TimelinePoint, error) {
	all, err := s.repomanager.Activity().List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, a := range all {
		if a.Timestamp.IsZero() {
			continue
		}
		counts[timex.DateKey(timex.FormatTimestamp(a.Timestamp))]++
	}

	points := make([]models.TimelinePoint, 0, len(counts))
	for date, n := range counts {
		points = append(points, models.TimelinePoint{Date: date, Count: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/claims"
	"github.com/dmitrijs2005/gophreach/internal/server/config"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/base"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

var fixedNow = time.Date(2026, 2, 1, 15, 4, 5, 0, time.UTC)

var (
	admin = &models.Identity{UserID: "u-admin", DisplayName: "Ana Admin", Email: "ana@example.org", Role: models.RoleAdmin}
	carla = &models.Identity{UserID: "u-carla", DisplayName: "Carla", Email: "carla@example.org", Role: models.RoleCollaborator}
	diego = &models.Identity{UserID: "u-diego", Email: "diego@example.org", Role: models.RoleCollaborator}
)

func testClock() clock {
	var n atomic.Int64
	return clock{
		now:   func() time.Time { return fixedNow },
		newID: func() string { return fmt.Sprintf("id-%d", n.Add(1)) },
	}
}

// env wires every service over one in-memory store with a fixed clock.
type env struct {
	store       store.Store
	rm          repomanager.RepositoryManager
	ledger      *LedgerService
	contacts    *ContactService
	base        *BaseService
	assignments *AssignmentService
	outcomes    *OutcomeService
	reports     *ReportService
	users       *UserService
	templates   *TemplateService
	exports     *ExportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, store.NewMemoryStore(), claims.Noop{})
}

func newEnvWith(t *testing.T, s store.Store, locker claims.Locker) *env {
	t.Helper()
	log := logging.Nop()
	rm := repomanager.NewStoreRepositoryManager(s)
	cfg := &config.Config{}
	cfg.LoadDefaults()

	e := &env{store: s, rm: rm}
	e.ledger = NewLedgerService(rm, log)
	e.ledger.clock = testClock()
	e.contacts = NewContactService(rm, e.ledger, log)
	e.contacts.clock = testClock()
	e.base = NewBaseService(rm, e.ledger, log)
	e.assignments = NewAssignmentService(rm, e.ledger, locker, AllocatorOptions{Concurrency: 4, DefaultBatchSize: 5, QueueLimit: 5}, log)
	e.assignments.clock = testClock()
	e.outcomes = NewOutcomeService(rm, e.ledger, log)
	e.outcomes.clock = testClock()
	e.reports = NewReportService(rm, log)
	e.users = NewUserService(rm, e.ledger, cfg, log)
	e.users.clock = testClock()
	e.users.bcryptCost = bcrypt.MinCost
	e.templates = NewTemplateService(rm, cfg.Event(), log)
	e.templates.clock = testClock()
	e.exports = NewExportService(rm, cfg, log)
	e.exports.clock = testClock()
	return e
}

func (e *env) seedBase(t *testing.T, recs ...models.HistoricalRecord) {
	t.Helper()
	ms, ok := e.store.(interface {
		Seed(store.Table, ...[]string) error
	})
	require.True(t, ok, "store cannot be seeded")
	for _, r := range recs {
		require.NoError(t, ms.Seed(store.HistoricalBase, base.Encode(r)))
	}
}

func (e *env) seedContact(t *testing.T, c models.Contact) {
	t.Helper()
	require.NoError(t, e.rm.Contacts().Append(context.Background(), c))
}

func (e *env) seedAssignment(t *testing.T, a models.Assignment) {
	t.Helper()
	require.NoError(t, e.rm.Assignments().Append(context.Background(), a))
}

func (e *env) seedUser(t *testing.T, u models.User, password string) {
	t.Helper()
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		u.PasswordHash = string(hash)
	}
	require.NoError(t, e.rm.Users().Create(context.Background(), u))
}

func (e *env) activity(t *testing.T) []models.Activity {
	t.Helper()
	all, err := e.rm.Activity().List(context.Background())
	require.NoError(t, err)
	return all
}

func (e *env) baseRecord(t *testing.T, nationalID string) models.HistoricalRecord {
	t.Helper()
	snap, err := e.rm.Base().Snapshot(context.Background())
	require.NoError(t, err)
	r, _, ok := snap.ByNationalID(nationalID)
	require.True(t, ok, "no base record %s", nationalID)
	return r
}

func (e *env) contact(t *testing.T, id string) models.Contact {
	t.Helper()
	snap, err := e.rm.Contacts().Snapshot(context.Background())
	require.NoError(t, err)
	c, _, ok := snap.ByID(id)
	require.True(t, ok, "no contact %s", id)
	return c
}

func baseRecords(n int) []models.HistoricalRecord {
	out := make([]models.HistoricalRecord, n)
	for i := range out {
		out[i] = models.HistoricalRecord{
			NationalID:   fmt.Sprintf("%d", 1000+i),
			FullName:     fmt.Sprintf("Persona %d", i),
			Phone:        fmt.Sprintf("300%07d", i),
			Municipality: "Bogotá",
			Department:   "Cundinamarca",
			PollingPlace: "Colegio Distrital",
			Table:        "1",
		}
	}
	return out
}

func assigned(nationalID, userID string) models.Assignment {
	return models.Assignment{
		ID:               "a-" + nationalID + "-" + userID,
		ContactID:        nationalID,
		NationalID:       nationalID,
		AssigneeUserID:   userID,
		AssignedByUserID: admin.UserID,
		AssignedAt:       fixedNow.Add(-time.Hour),
		Active:           true,
	}
}

// faultyStore injects failures into selected writes.
type faultyStore struct {
	store.Store
	appendErr func(t store.Table, row []string) error
	updateErr func(t store.Table) error
}

func (f *faultyStore) AppendRow(ctx context.Context, t store.Table, row []string) error {
	if f.appendErr != nil {
		if err := f.appendErr(t, row); err != nil {
			return err
		}
	}
	return f.Store.AppendRow(ctx, t, row)
}

func (f *faultyStore) UpdateRow(ctx context.Context, t store.Table, addr store.RowAddress, row []string) error {
	if f.updateErr != nil {
		if err := f.updateErr(t); err != nil {
			return err
		}
	}
	return f.Store.UpdateRow(ctx, t, addr, row)
}

func (f *faultyStore) UpdateCellRange(ctx context.Context, t store.Table, addr store.RowAddress, cols store.ColumnRange, values []string) error {
	if f.updateErr != nil {
		if err := f.updateErr(t); err != nil {
			return err
		}
	}
	return f.Store.UpdateCellRange(ctx, t, addr, cols, values)
}

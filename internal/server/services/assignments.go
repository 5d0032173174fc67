package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/claims"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// AllocatorOptions tunes allocation and queue sizes.
type AllocatorOptions struct {
	// Concurrency bounds the parallel appends of one batch.
	Concurrency      int
	DefaultBatchSize int
	QueueLimit       int
}

// AllocationFailure is one record whose assignment append failed.
type AllocationFailure struct {
	NationalID string `json:"national_id"`
	Error      string `json:"error"`
}

// AllocationResult is authoritative for what a batch actually assigned.
// Failed appends are not rolled back or retried.
type AllocationResult struct {
	Assigned []models.HistoricalRecord `json:"assigned"`
	Failed   []AllocationFailure       `json:"failed,omitempty"`
}

// AssignRequest is a manual assignment. At least one of ContactID and
// NationalID is required.
type AssignRequest struct {
	ContactID  string `json:"contact_id,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	UserID     string `json:"user_id"`
}

type AssignResult struct {
	Assignment models.Assignment `json:"assignment"`
	Created    bool              `json:"created"`
}

// Queue is the caller's worklist: the first pending records of their active
// assignments and the total pending count.
type Queue struct {
	Items    []models.HistoricalRecord `json:"items"`
	Pending  int                       `json:"pending"`
	Assigned int                       `json:"assigned"`
}

// AssignmentService hands historical base records to collaborators.
type AssignmentService struct {
	clock
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	locker      claims.Locker
	opts        AllocatorOptions
	logger      logging.Logger
}

func NewAssignmentService(m repomanager.RepositoryManager, ledger *LedgerService, locker claims.Locker, opts AllocatorOptions, logger logging.Logger) *AssignmentService {
	if locker == nil {
		locker = claims.Noop{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.DefaultBatchSize <= 0 {
		opts.DefaultBatchSize = 5
	}
	if opts.QueueLimit <= 0 {
		opts.QueueLimit = 5
	}
	return &AssignmentService{
		clock:       defaultClock(),
		repomanager: m,
		ledger:      ledger,
		locker:      locker,
		opts:        opts,
		logger:      logger.With("component", "allocator"),
	}
}

// AutoAssign gives the caller up to count records that no assignment, active
// or not, has ever referenced, in base scan order.
//
// Without a claim lock two concurrent batches can select the same record:
// both read the assignments before either appends. With a lease locker a
// record is skipped when another batch holds its lease.
func (s *AssignmentService) AutoAssign(ctx context.Context, id *models.Identity, count int) (*AllocationResult, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = s.opts.DefaultBatchSize
	}

	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	base, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// leases are owned by this batch, not by the caller, so two batches of
	// the same collaborator exclude each other too
	owner := s.newID()
	records := base.All()
	claimed := asg.Claimed()
	selected := make([]models.HistoricalRecord, 0, min(count, len(records)))
	for _, r := range records {
		if len(selected) == count {
			break
		}
		if _, ok := claimed[r.NationalID]; ok {
			continue
		}
		// duplicate national ids in the base are offered once
		claimed[r.NationalID] = struct{}{}

		ok, err := s.locker.TryClaim(ctx, r.NationalID, owner)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug(ctx, "record leased by another allocator", "national_id", r.NationalID)
			continue
		}
		selected = append(selected, r)
	}

	result := &AllocationResult{Assigned: []models.HistoricalRecord{}}
	if len(selected) == 0 {
		s.logger.Info(ctx, "no records available", "user_id", id.UserID)
		return result, nil
	}

	errs := make([]error, len(selected))
	now := s.now()

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, r := range selected {
		g.Go(func() error {
			a := models.Assignment{
				ID:               s.newID(),
				ContactID:        r.NationalID,
				NationalID:       r.NationalID,
				AssigneeUserID:   id.UserID,
				AssignedByUserID: common.SystemActor,
				AssignedAt:       now,
				Active:           true,
			}
			if errs[i] = s.repomanager.Assignments().Append(ctx, a); errs[i] != nil {
				return nil
			}
			s.ledger.recordQuietly(ctx, models.Activity{
				NationalID:  r.NationalID,
				ActorUserID: common.SystemActor,
				Kind:        models.KindReassignment,
				Detail:      "Asignación automática a " + id.ManagerName(),
			})
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range selected {
		if errs[i] != nil {
			result.Failed = append(result.Failed, AllocationFailure{NationalID: r.NationalID, Error: errs[i].Error()})
			continue
		}
		result.Assigned = append(result.Assigned, r)
	}

	s.logger.Info(ctx, "allocation finished",
		"user_id", id.UserID, "requested", count, "assigned", len(result.Assigned), "failed", len(result.Failed))
	return result, nil
}

// Assign creates an administrator's assignment regardless of the claimed
// set. An existing active assignment of the same record to the same user is
// returned unchanged.
func (s *AssignmentService) Assign(ctx context.Context, id *models.Identity, req AssignRequest) (*AssignResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	req.ContactID = strings.TrimSpace(req.ContactID)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.UserID = strings.TrimSpace(req.UserID)
	if (req.ContactID == "" && req.NationalID == "") || req.UserID == "" {
		return nil, common.Validationf("user_id and one of contact_id or national_id are required")
	}

	users, err := s.repomanager.Users().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	assignee, _, ok := users.ByID(req.UserID)
	if !ok {
		return nil, common.NotFoundf("user %s", req.UserID)
	}

	if req.NationalID == "" {
		contacts, err := s.repomanager.Contacts().Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if c, _, ok := contacts.ByID(req.ContactID); ok {
			req.NationalID = c.NationalID
		}
	}

	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range asg.ActiveFor(req.UserID) {
		if (req.NationalID != "" && a.NationalID == req.NationalID) ||
			(req.NationalID == "" && a.ContactID == req.ContactID) {
			return &AssignResult{Assignment: a}, nil
		}
	}

	a := models.Assignment{
		ID:               s.newID(),
		ContactID:        req.ContactID,
		NationalID:       req.NationalID,
		AssigneeUserID:   req.UserID,
		AssignedByUserID: id.UserID,
		AssignedAt:       s.now(),
		Active:           true,
	}
	if err := s.repomanager.Assignments().Append(ctx, a); err != nil {
		return nil, err
	}
	s.ledger.recordQuietly(ctx, models.Activity{
		ContactID:   a.ContactID,
		NationalID:  a.NationalID,
		ActorUserID: id.UserID,
		Kind:        models.KindReassignment,
		Detail:      "Asignación manual a " + assignee.Name,
	})
	return &AssignResult{Assignment: a, Created: true}, nil
}

// Deactivate clears the active flag of an assignment. The row stays in the
// table and keeps claiming its record for automatic allocation.
func (s *AssignmentService) Deactivate(ctx context.Context, id *models.Identity, assignmentID string) (*models.Assignment, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	repo := s.repomanager.Assignments()
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	a, addr, ok := snap.ByID(assignmentID)
	if !ok {
		return nil, common.NotFoundf("assignment %s", assignmentID)
	}
	if !a.Active {
		return &a, nil
	}

	if err := repo.SetActive(ctx, addr, false); err != nil {
		return nil, err
	}
	a.Active = false
	s.ledger.recordQuietly(ctx, models.Activity{
		ContactID:   a.ContactID,
		NationalID:  a.NationalID,
		ActorUserID: id.UserID,
		Kind:        models.KindReassignment,
		Detail:      "Asignación desactivada",
	})
	return &a, nil
}

func (s *AssignmentService) List(ctx context.Context, id *models.Identity) ([]models.Assignment, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	snap, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.All(), nil
}

// MyQueue joins the caller's active assignments to the historical base and
// returns the first limit records still pending a call outcome.
func (s *AssignmentService) MyQueue(ctx context.Context, id *models.Identity, limit int) (*Queue, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.QueueLimit
	}

	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	mine := asg.ActiveFor(id.UserID)

	q := &Queue{Items: []models.HistoricalRecord{}}
	if len(mine) == 0 {
		return q, nil
	}

	base, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(mine))
	for _, a := range mine {
		if _, dup := seen[a.NationalID]; dup {
			continue
		}
		seen[a.NationalID] = struct{}{}

		r, _, ok := base.ByNationalID(a.NationalID)
		if !ok {
			continue
		}
		q.Assigned++
		if !queuePending(r.CallState()) {
			continue
		}
		q.Pending++
		if len(q.Items) < limit {
			q.Items = append(q.Items, r)
		}
	}
	return q, nil
}

func queuePending(st models.State) bool {
	switch st {
	case models.StateNew, models.StateNoAnswer, models.StatePendingFollowUp:
		return true
	}
	return false
}

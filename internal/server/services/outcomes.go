package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"golang.org/x/sync/errgroup"
)

// OutcomeRequest reports the result of working a contact. TargetID is a
// contact id or, for records that only exist in the historical base, a
// national id.
type OutcomeRequest struct {
	TargetID         string `json:"target_id"`
	CallOutcome      string `json:"call_outcome,omitempty"`
	MessagingOutcome string `json:"messaging_outcome,omitempty"`
	PersonResponse   string `json:"person_response,omitempty"`
	Note             string `json:"note,omitempty"`
	Observations     string `json:"observations,omitempty"`
	TemplateName     string `json:"template_name,omitempty"`
}

type OutcomeResult struct {
	NewState models.State             `json:"new_state"`
	Contact  *models.Contact          `json:"contact,omitempty"`
	Record   *models.HistoricalRecord `json:"record,omitempty"`
	Entries  []models.Activity        `json:"entries"`
}

// OutcomeService is the contact state machine.
type OutcomeService struct {
	clock
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	logger      logging.Logger
}

func NewOutcomeService(m repomanager.RepositoryManager, ledger *LedgerService, logger logging.Logger) *OutcomeService {
	return &OutcomeService{clock: defaultClock(), repomanager: m, ledger: ledger, logger: logger.With("component", "outcomes")}
}

// target is what an outcome applies to within one operation.
type target struct {
	contact     *models.Contact
	contactAddr store.RowAddress
	record      *models.HistoricalRecord
	recordAddr  store.RowAddress
	nationalID  string
}

// ApplyOutcome validates the reported outcomes, resolves the composite
// state and writes it to the contact and, for contacts mirrored from the
// historical base, to the base record. The two writes run in parallel and
// are not atomic; a failure of either is returned and no ledger entry is
// written.
func (s *OutcomeService) ApplyOutcome(ctx context.Context, id *models.Identity, req OutcomeRequest) (*OutcomeResult, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	req.TargetID = strings.TrimSpace(req.TargetID)
	if req.TargetID == "" {
		return nil, common.Validationf("target_id is required")
	}
	call, err := models.ParseOutcome(req.CallOutcome)
	if err != nil {
		return nil, err
	}
	messaging, err := models.ParseOutcome(req.MessagingOutcome)
	if err != nil {
		return nil, err
	}
	if messaging == "" && req.TemplateName != "" {
		messaging = models.StateMessageSent
	}
	if call == "" && messaging == "" && req.Note == "" && req.Observations == "" {
		return nil, common.Validationf("no outcome, note or observations to apply")
	}

	t, err := s.resolve(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, id, t); err != nil {
		return nil, err
	}

	var current models.State
	if t.contact != nil {
		current = t.contact.State
	} else {
		current = t.record.CallState()
	}
	newState := models.ResolveComposite(current, call, messaging)
	now := s.now()

	var contactErr, baseErr error
	var g errgroup.Group

	if t.contact != nil {
		c := *t.contact
		c.State = newState
		if req.Observations != "" {
			c.Notes = req.Observations
		}
		c.UpdatedAt = now
		c.LastManagedAt = now
		t.contact = &c

		g.Go(func() error {
			contactErr = s.repomanager.Contacts().Update(ctx, t.contactAddr, c)
			return nil
		})
	}

	if t.record != nil {
		r := *t.record
		if call != "" {
			r.CallOutcome = string(call)
		}
		if messaging != "" {
			r.MessagingOutcome = string(messaging)
		}
		if req.Note != "" {
			r.Note = req.Note
		}
		r.ManagedByDisplayName = id.ManagerName()
		r.LastManagedAt = now
		t.record = &r

		g.Go(func() error {
			baseErr = s.repomanager.Base().WriteOutcome(ctx, t.recordAddr, r)
			return nil
		})
	}

	_ = g.Wait()
	if err := errors.Join(contactErr, baseErr); err != nil {
		s.logger.Error(ctx, "outcome write failed",
			"target_id", req.TargetID, "contact_write_failed", contactErr != nil, "base_write_failed", baseErr != nil, "error", err)

		// a write that landed is not rolled back, so it is still audited
		applied := (t.contact != nil && contactErr == nil) || (t.record != nil && baseErr == nil)
		if applied {
			note := partialWriteNote(contactErr, baseErr)
			for _, e := range s.entries(id, t, req, call, messaging, newState, now) {
				e.Detail += note
				s.ledger.recordQuietly(ctx, e)
			}
		}
		return nil, err
	}

	entries := s.entries(id, t, req, call, messaging, newState, now)
	for _, e := range entries {
		s.ledger.recordQuietly(ctx, e)
	}

	s.logger.Info(ctx, "outcome applied", "target_id", req.TargetID, "new_state", newState, "user_id", id.UserID)
	return &OutcomeResult{NewState: newState, Contact: t.contact, Record: t.record, Entries: entries}, nil
}

// partialWriteNote names the store that did not take the outcome.
func partialWriteNote(contactErr, baseErr error) string {
	if baseErr != nil {
		return " | Sin escribir: base histórica"
	}
	if contactErr != nil {
		return " | Sin escribir: contacto"
	}
	return ""
}

// resolve finds the contact by id, falling back to a base-only record keyed
// by the same value. A contact mirrored from the base must have its base
// record, checked here before anything is written.
func (s *OutcomeService) resolve(ctx context.Context, targetID string) (*target, error) {
	contacts, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	t := &target{}
	c, addr, found := contacts.ByID(targetID)
	if found {
		t.contact, t.contactAddr, t.nationalID = &c, addr, c.NationalID
		if c.Origin != models.OriginBaseTotal {
			return t, nil
		}
	} else {
		t.nationalID = targetID
	}

	base, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	r, raddr, ok := base.ByNationalID(t.nationalID)
	if !ok {
		if found {
			return nil, common.NotFoundf("historical record %s for contact %s", t.nationalID, targetID)
		}
		return nil, common.NotFoundf("contact %s", targetID)
	}
	t.record, t.recordAddr = &r, raddr
	return t, nil
}

func (s *OutcomeService) authorize(ctx context.Context, id *models.Identity, t *target) error {
	if id.IsAdmin() {
		return nil
	}
	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return err
	}
	contactID := ""
	if t.contact != nil {
		contactID = t.contact.ID
	}
	if !asg.Covers(id.UserID, contactID, t.nationalID) {
		return forbiddenContact(t.nationalID)
	}
	return nil
}

// entries builds one ledger entry per reported channel, all carrying the
// resolved state, or a single NOTE entry when no channel was reported.
func (s *OutcomeService) entries(id *models.Identity, t *target, req OutcomeRequest, call, messaging, newState models.State, now time.Time) []models.Activity {
	base := models.Activity{
		Timestamp:      now,
		NationalID:     t.nationalID,
		ActorUserID:    id.UserID,
		NewState:       newState,
		PersonResponse: req.PersonResponse,
		Note:           req.Note,
	}
	if t.contact != nil {
		base.ContactID = t.contact.ID
	}

	var out []models.Activity
	if call != "" {
		e := base
		e.ID = s.newID()
		e.Kind = models.KindCall
		e.Detail = "Llamada: " + string(call)
		out = append(out, e)
	}
	if messaging != "" {
		e := base
		e.ID = s.newID()
		e.Kind = models.KindStateChange
		if messaging == models.StateMessageSent {
			e.Kind = models.KindMessageSent
		}
		e.Detail = "Mensajería: " + string(messaging)
		if req.TemplateName != "" {
			e.Detail += " | Plantilla: " + req.TemplateName
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		e := base
		e.ID = s.newID()
		e.Kind = models.KindNote
		e.Detail = "Nota agregada"
		if req.Note == "" {
			e.Detail = "Observaciones actualizadas"
		}
		out = append(out, e)
	}
	return out
}

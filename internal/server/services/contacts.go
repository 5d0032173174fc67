package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/textx"
)

const (
	searchMinRunes = 3
	searchLimit    = 8
)

// RegisterRequest is a public self-registration.
type RegisterRequest struct {
	NationalID          string `json:"national_id"`
	FullName            string `json:"full_name"`
	Phone               string `json:"phone"`
	Email               string `json:"email,omitempty"`
	Locality            string `json:"locality"`
	ReferredByContactID string `json:"referred_by_contact_id,omitempty"`
	ReferredByName      string `json:"referred_by_name,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

func (r *RegisterRequest) normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Locality = strings.TrimSpace(r.Locality)
	r.ReferredByContactID = strings.TrimSpace(r.ReferredByContactID)
	r.ReferredByName = strings.TrimSpace(r.ReferredByName)
}

func (r *RegisterRequest) validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"full_name", r.FullName},
		{"national_id", r.NationalID},
		{"phone", r.Phone},
		{"locality", r.Locality},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return common.Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RegisterResult reports the stored contact and whether an existing one was
// updated instead of created.
type RegisterResult struct {
	Contact models.Contact `json:"contact"`
	Updated bool           `json:"updated"`
}

// ContactService owns the Contacts table.
type ContactService struct {
	clock
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	logger      logging.Logger
}

func NewContactService(m repomanager.RepositoryManager, ledger *LedgerService, logger logging.Logger) *ContactService {
	return &ContactService{clock: defaultClock(), repomanager: m, ledger: ledger, logger: logger}
}

// Register creates a contact or, when the national id is already known,
// refreshes its contact-method fields. State and notes of an existing
// contact are never touched.
func (s *ContactService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Contacts()
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if existing, addr, ok := snap.ByNationalID(req.NationalID); ok {
		updated := upsertOnReregistration(existing, req)
		updated.UpdatedAt = now
		if err := repo.Update(ctx, addr, updated); err != nil {
			return nil, err
		}
		s.ledger.recordQuietly(ctx, models.Activity{
			ContactID:   updated.ID,
			NationalID:  updated.NationalID,
			ActorUserID: common.SystemActor,
			Kind:        models.KindCreation,
			Detail:      "Actualización por re-registro",
			NewState:    updated.State,
		})
		s.logger.Info(ctx, "contact re-registered", "contact_id", updated.ID)
		return &RegisterResult{Contact: updated, Updated: true}, nil
	}

	c := models.Contact{
		ID:                  s.newID(),
		NationalID:          req.NationalID,
		FullName:            req.FullName,
		Phone:               req.Phone,
		Email:               req.Email,
		Locality:            req.Locality,
		ReferredByContactID: req.ReferredByContactID,
		ReferredByName:      req.ReferredByName,
		State:               models.StateNew,
		Notes:               req.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
		Origin:              models.OriginPublicForm,
	}
	if c.ReferredByContactID != "" && c.ReferredByName == "" {
		if ref, _, ok := snap.ByID(c.ReferredByContactID); ok {
			c.ReferredByName = ref.FullName
		}
	}

	if err := repo.Append(ctx, c); err != nil {
		return nil, err
	}
	s.ledger.recordQuietly(ctx, models.Activity{
		ContactID:   c.ID,
		NationalID:  c.NationalID,
		ActorUserID: common.SystemActor,
		Kind:        models.KindCreation,
		Detail:      "Registro público",
		NewState:    c.State,
	})
	s.logger.Info(ctx, "contact registered", "contact_id", c.ID)
	return &RegisterResult{Contact: c}, nil
}

// upsertOnReregistration overwrites phone, email and locality with the
// incoming non-empty values.
func upsertOnReregistration(existing models.Contact, req RegisterRequest) models.Contact {
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Locality != "" {
		existing.Locality = req.Locality
	}
	return existing
}

// FindByID returns a contact visible to the caller.
func (s *ContactService) FindByID(ctx context.Context, id *models.Identity, contactID string) (*models.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	snap, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	c, _, ok := snap.ByID(contactID)
	if !ok {
		return nil, common.NotFoundf("contact %s", contactID)
	}

	if !id.IsAdmin() {
		asg, err := s.repomanager.Assignments().Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if !asg.Covers(id.UserID, c.ID, c.NationalID) {
			return nil, forbiddenContact(contactID)
		}
	}
	return &c, nil
}

// ListVisibleTo returns every contact for administrators and, for everyone
// else, the contacts referenced by one of their active assignments through
// either key.
func (s *ContactService) ListVisibleTo(ctx context.Context, id *models.Identity) ([]models.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	snap, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if id.IsAdmin() {
		return snap.All(), nil
	}

	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	nationalIDs := make(map[string]struct{})
	for _, a := range asg.ActiveFor(id.UserID) {
		if a.ContactID != "" {
			ids[a.ContactID] = struct{}{}
		}
		if a.NationalID != "" {
			nationalIDs[a.NationalID] = struct{}{}
		}
	}

	var out []models.Contact
	for _, c := range snap.All() {
		_, byID := ids[c.ID]
		_, byNationalID := nationalIDs[c.NationalID]
		if byID || byNationalID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Search matches full names case-insensitively for referral autocomplete.
// Queries shorter than three characters return nothing.
func (s *ContactService) Search(ctx context.Context, query string) ([]models.ContactMatch, error) {
	m := textx.NewMatcher(query)
	if m.Len() < searchMinRunes {
		return []models.ContactMatch{}, nil
	}

	snap, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := []models.ContactMatch{}
	for _, c := range snap.All() {
		if m.Match(c.FullName) {
			out = append(out, models.ContactMatch{ID: c.ID, FullName: c.FullName})
			if len(out) == searchLimit {
				break
			}
		}
	}
	return out, nil
}

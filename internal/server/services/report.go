package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
)

// MemberProgress is one row of the team report.
type MemberProgress struct {
	UserID         string      `json:"user_id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	Assigned       int         `json:"assigned"`
	Managed        int         `json:"managed"`
	Confirmed      int         `json:"confirmed"`
	Rejected       int         `json:"rejected"`
	Pending        int         `json:"pending"`
	CompletionRate float64     `json:"completion_rate"`
}

type ReportService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewReportService(m repomanager.RepositoryManager, logger logging.Logger) *ReportService {
	return &ReportService{repomanager: m, logger: logger}
}

// TeamReport computes per-user completion over the contacts covered by each
// user's active assignments, busiest users first.
func (s *ReportService) TeamReport(ctx context.Context, id *models.Identity) ([]MemberProgress, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	usersSnap, err := s.repomanager.Users().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	asg, err := s.repomanager.Assignments().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byUser := asg.ActiveByUser()
	out := []MemberProgress{}
	for _, u := range usersSnap.All() {
		if u.Role != models.RoleCollaborator && u.Role != models.RoleAdmin {
			continue
		}
		out = append(out, progressOf(u, byUser[u.ID], contacts.All()))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Assigned > out[j].Assigned })
	return out, nil
}

func progressOf(u models.User, active []models.Assignment, contacts []models.Contact) MemberProgress {
	p := MemberProgress{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}

	ids := make(map[string]struct{}, len(active))
	nids := make(map[string]struct{}, len(active))
	for _, a := range active {
		if a.ContactID != "" {
			ids[a.ContactID] = struct{}{}
		}
		if a.NationalID != "" {
			nids[a.NationalID] = struct{}{}
		}
	}

	for _, c := range contacts {
		_, byID := ids[c.ID]
		_, byNID := nids[c.NationalID]
		if !byID && !byNID {
			continue
		}
		p.Assigned++
		switch c.State {
		case models.StateConfirmed:
			p.Confirmed++
		case models.StateRejected:
			p.Rejected++
		}
		if c.State.Managed() {
			p.Managed++
		}
	}

	p.Pending = p.Assigned - p.Managed
	if p.Assigned > 0 {
		p.CompletionRate = float64(p.Managed) / float64(p.Assigned) * 100
	}
	return p
}

package services

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/textx"
)

const (
	defaultBasePageSize = 1000
	maxBasePageSize     = 1000
)

// BasePageRequest filters and pages the historical base. Page is 1-based.
type BasePageRequest struct {
	Filter   string `json:"filter,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type BasePage struct {
	Records  []models.HistoricalRecord `json:"records"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// Stats is the backlog split of the historical base. Timeline is only
// filled for administrators.
type Stats struct {
	Pending  int                    `json:"pending"`
	Attended int                    `json:"attended"`
	Total    int                    `json:"total"`
	Timeline []models.TimelinePoint `json:"timeline"`
}

// BaseService reads the historical base.
type BaseService struct {
	repomanager repomanager.RepositoryManager
	ledger      *LedgerService
	logger      logging.Logger
}

func NewBaseService(m repomanager.RepositoryManager, ledger *LedgerService, logger logging.Logger) *BaseService {
	return &BaseService{repomanager: m, ledger: ledger, logger: logger}
}

// Page scans the whole base, keeps records whose municipality or department
// contains the filter, and then cuts the requested page.
func (s *BaseService) Page(ctx context.Context, id *models.Identity, req BasePageRequest) (*BasePage, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	switch {
	case req.PageSize <= 0:
		req.PageSize = defaultBasePageSize
	case req.PageSize > maxBasePageSize:
		req.PageSize = maxBasePageSize
	}

	snap, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	m := textx.NewMatcher(req.Filter)
	var matched []models.HistoricalRecord
	for _, r := range snap.All() {
		if m.Empty() || m.Match(r.Municipality, r.Department) {
			matched = append(matched, r)
		}
	}

	page := &BasePage{Total: len(matched), Page: req.Page, PageSize: req.PageSize, Records: []models.HistoricalRecord{}}
	// compare page numbers before multiplying so huge pages cannot overflow
	pages := (len(matched) + req.PageSize - 1) / req.PageSize
	if req.Page <= pages {
		start := (req.Page - 1) * req.PageSize
		end := min(start+req.PageSize, len(matched))
		page.Records = matched[start:end]
	}
	return page, nil
}

// Classify is pending iff neither outcome channel is set.
func (s *BaseService) Classify(r models.HistoricalRecord) models.Classification {
	return r.Classify()
}

func (s *BaseService) FindByNationalID(ctx context.Context, id *models.Identity, nationalID string) (*models.HistoricalRecord, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	snap, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	r, _, ok := snap.ByNationalID(nationalID)
	if !ok {
		return nil, common.NotFoundf("historical record %s", nationalID)
	}
	return &r, nil
}

// Stats counts the global backlog. Administrators get global attended
// counts plus the ledger timeline; collaborators get attended counts
// restricted to records stamped with their own manager name.
func (s *BaseService) Stats(ctx context.Context, id *models.Identity) (*Stats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	snap, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{Total: snap.Len(), Timeline: []models.TimelinePoint{}}
	me := id.ManagerName()
	for _, r := range snap.All() {
		switch s.Classify(r) {
		case models.Pending:
			st.Pending++
		case models.Attended:
			if id.IsAdmin() || r.ManagedByDisplayName == me {
				st.Attended++
			}
		}
	}

	if id.IsAdmin() {
		if st.Timeline, err = s.ledger.Timeline(ctx); err != nil {
			return nil, err
		}
	}
	return st, nil
}

package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/api"
	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeUsers struct {
	loginResp *services.LoginResult
	loginErr  error

	created   services.CreateUserRequest
	createErr error
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) CreateUser(ctx context.Context, id *models.Identity, req services.CreateUserRequest) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = req
	return &models.User{ID: "u-new", Name: req.Name, Email: req.Email, Role: models.RoleCollaborator, Active: true}, nil
}
func (f *fakeUsers) ListUsers(ctx context.Context, id *models.Identity) ([]models.User, error) {
	return nil, nil
}
func (f *fakeUsers) Me(ctx context.Context, id *models.Identity) (*models.Identity, error) {
	if id == nil {
		return nil, common.ErrUnauthorized
	}
	out := *id
	return &out, nil
}

type fakeAssignments struct {
	seen   *models.Identity
	result *services.AllocationResult
	err    error
}

func (f *fakeAssignments) AutoAssign(ctx context.Context, id *models.Identity, count int) (*services.AllocationResult, error) {
	f.seen = id
	return f.result, f.err
}
func (f *fakeAssignments) Assign(ctx context.Context, id *models.Identity, req services.AssignRequest) (*services.AssignResult, error) {
	return &services.AssignResult{Assignment: models.Assignment{ID: "a1", AssigneeUserID: req.UserID, NationalID: req.NationalID, Active: true}, Created: true}, nil
}
func (f *fakeAssignments) Deactivate(ctx context.Context, id *models.Identity, assignmentID string) (*models.Assignment, error) {
	return nil, fmt.Errorf("%w: assignment %s", common.ErrNotFound, assignmentID)
}
func (f *fakeAssignments) List(ctx context.Context, id *models.Identity) ([]models.Assignment, error) {
	return nil, nil
}
func (f *fakeAssignments) MyQueue(ctx context.Context, id *models.Identity, limit int) (*services.Queue, error) {
	return &services.Queue{}, nil
}

type fakeOutcomes struct {
	req services.OutcomeRequest
	err error
}

func (f *fakeOutcomes) ApplyOutcome(ctx context.Context, id *models.Identity, req services.OutcomeRequest) (*services.OutcomeResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.OutcomeResult{NewState: models.StateNoAnswer}, nil
}

type fakeReports struct{}

func (fakeReports) TeamReport(ctx context.Context, id *models.Identity) ([]services.MemberProgress, error) {
	return []services.MemberProgress{{UserID: "u-carla", Name: "Carla", Assigned: 5, Managed: 3, Pending: 2, CompletionRate: 60}}, nil
}

func newServer(svc Services) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		svc:       svc,
		logger:    logging.Nop(),
		jwtSecret: []byte("k"),
	}
}

var carla = &models.Identity{UserID: "u-carla", Email: "carla@example.org", DisplayName: "Carla", Role: models.RoleCollaborator}

func withIdentity(id *models.Identity) context.Context {
	return context.WithValue(context.Background(), identityKey, id)
}

// ---- tests ----

func TestLogin_OK(t *testing.T) {
	u := &fakeUsers{loginResp: &services.LoginResult{AccessToken: "a", Identity: *carla}}
	s := newServer(Services{Users: u})
	resp, err := s.Login(context.Background(), &api.LoginRequest{Email: "carla@example.org", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.AccessToken != "a" || resp.Identity.UserID != "u-carla" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLogin_Unauthenticated(t *testing.T) {
	s := newServer(Services{Users: &fakeUsers{loginErr: common.ErrUnauthorized}})
	_, err := s.Login(context.Background(), &api.LoginRequest{Email: "x", Password: "y"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v (err=%v)", status.Code(err), err)
	}
}

func TestMe_UsesIdentityFromContext(t *testing.T) {
	s := newServer(Services{Users: &fakeUsers{}})
	resp, err := s.Me(withIdentity(carla), &api.MeRequest{})
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if resp.Identity != *carla {
		t.Fatalf("unexpected identity: %+v", resp.Identity)
	}

	_, err = s.Me(context.Background(), &api.MeRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated without identity, got %v", status.Code(err))
	}
}

func TestApplyOutcome_PassesRequestThrough(t *testing.T) {
	o := &fakeOutcomes{}
	s := newServer(Services{Outcomes: o})
	resp, err := s.ApplyOutcome(withIdentity(carla), &api.ApplyOutcomeRequest{
		TargetID:     "c1",
		CallOutcome:  "NO_RESPONDE",
		TemplateName: "Bienvenida",
		Note:         "volver a llamar",
	})
	if err != nil {
		t.Fatalf("ApplyOutcome error: %v", err)
	}
	if resp.NewState != models.StateNoAnswer {
		t.Fatalf("unexpected state: %q", resp.NewState)
	}
	if o.req.TargetID != "c1" || o.req.CallOutcome != "NO_RESPONDE" || o.req.TemplateName != "Bienvenida" || o.req.Note != "volver a llamar" {
		t.Fatalf("request not forwarded: %+v", o.req)
	}
}

func TestAutoAssign_MapsFailures(t *testing.T) {
	a := &fakeAssignments{result: &services.AllocationResult{
		Assigned: []models.HistoricalRecord{{NationalID: "1001"}},
		Failed:   []services.AllocationFailure{{NationalID: "1002", Error: "store unavailable"}},
	}}
	s := newServer(Services{Assignments: a})
	resp, err := s.AutoAssign(withIdentity(carla), &api.AutoAssignRequest{Count: 2})
	if err != nil {
		t.Fatalf("AutoAssign error: %v", err)
	}
	if a.seen != carla {
		t.Fatal("identity not forwarded")
	}
	if len(resp.Assigned) != 1 || len(resp.Failed) != 1 || resp.Failed[0].NationalID != "1002" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTeamReport_Converts(t *testing.T) {
	s := newServer(Services{Reports: fakeReports{}})
	resp, err := s.TeamReport(withIdentity(carla), &api.TeamReportRequest{})
	if err != nil {
		t.Fatalf("TeamReport error: %v", err)
	}
	if len(resp.Members) != 1 || resp.Members[0].CompletionRate != 60 || resp.Members[0].Pending != 2 {
		t.Fatalf("unexpected members: %+v", resp.Members)
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	s := newServer(Services{Users: &fakeUsers{createErr: fmt.Errorf("%w: user carla@example.org", common.ErrConflict)}})
	_, err := s.CreateUser(withIdentity(carla), &api.CreateUserRequest{Name: "C", Email: "carla@example.org", Password: "pw"})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("want AlreadyExists, got %v", status.Code(err))
	}
}

func TestDeactivateAssignment_NotFound(t *testing.T) {
	s := newServer(Services{Assignments: &fakeAssignments{}})
	_, err := s.DeactivateAssignment(withIdentity(carla), &api.DeactivateAssignmentRequest{AssignmentID: "nope"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", status.Code(err))
	}
}

func TestToStatus(t *testing.T) {
	s := newServer(Services{})
	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.Validationf("phone is required"), codes.InvalidArgument},
		{common.NotFoundf("contact %s", "c1"), codes.NotFound},
		{common.ErrUnauthorized, codes.Unauthenticated},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{common.Forbiddenf("not assigned"), codes.PermissionDenied},
		{fmt.Errorf("%w: user x", common.ErrConflict), codes.AlreadyExists},
		{fmt.Errorf("scan: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{common.StoreError("scan", errors.New("disk gone")), codes.Internal},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := s.toStatus(context.Background(), "Test", tt.err)
			if status.Code(got) != tt.want {
				t.Fatalf("want %v, got %v", tt.want, status.Code(got))
			}
		})
	}
}

func TestToStatus_HidesInternalDetail(t *testing.T) {
	s := newServer(Services{})
	got := s.toStatus(context.Background(), "Test", errors.New("password_hash column missing"))
	if status.Convert(got).Message() != "internal error" {
		t.Fatalf("internal detail leaked: %v", got)
	}
}

func TestCatalog_NoIdentityNeeded(t *testing.T) {
	tmpl := services.NewTemplateService(nil, models.EventInfo{Place: "Plaza"}, logging.Nop())
	s := newServer(Services{Templates: tmpl})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := s.Catalog(ctx, &api.CatalogRequest{})
	if err != nil {
		t.Fatalf("Catalog error: %v", err)
	}
	if len(resp.Localities) == 0 || len(resp.States) == 0 || resp.Event.Place != "Plaza" {
		t.Fatalf("unexpected catalog: %+v", resp)
	}
}

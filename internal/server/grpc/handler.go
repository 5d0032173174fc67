package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophreach/internal/api"
	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Store and unexpected
// errors are logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	res, err := s.svc.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}
	s.logger.Info(ctx, "Logged in", "user_id", res.Identity.UserID)
	return &api.LoginResponse{AccessToken: res.AccessToken, Identity: res.Identity}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	res, err := s.svc.Contacts.Register(ctx, services.RegisterRequest{
		NationalID:          req.NationalID,
		FullName:            req.FullName,
		Phone:               req.Phone,
		Email:               req.Email,
		Locality:            req.Locality,
		ReferredByContactID: req.ReferredByContactID,
		ReferredByName:      req.ReferredByName,
		Notes:               req.Notes,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "Register", err)
	}
	return &api.RegisterResponse{Contact: res.Contact, Updated: res.Updated}, nil
}

func (s *GRPCServer) SearchContacts(ctx context.Context, req *api.SearchContactsRequest) (*api.SearchContactsResponse, error) {
	matches, err := s.svc.Contacts.Search(ctx, req.Query)
	if err != nil {
		return nil, s.toStatus(ctx, "SearchContacts", err)
	}
	return &api.SearchContactsResponse{Matches: matches}, nil
}

func (s *GRPCServer) Catalog(ctx context.Context, _ *api.CatalogRequest) (*api.CatalogResponse, error) {
	c := s.svc.Templates.Catalog()
	return &api.CatalogResponse{
		Localities:    c.Localities,
		Roles:         c.Roles,
		States:        c.States,
		ActivityKinds: c.ActivityKinds,
		Event:         c.Event,
		Templates:     c.Templates,
	}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *api.MeRequest) (*api.MeResponse, error) {
	id, err := s.svc.Users.Me(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "Me", err)
	}
	return &api.MeResponse{Identity: *id}, nil
}

func (s *GRPCServer) ListContacts(ctx context.Context, _ *api.ListContactsRequest) (*api.ListContactsResponse, error) {
	contacts, err := s.svc.Contacts.ListVisibleTo(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "ListContacts", err)
	}
	return &api.ListContactsResponse{Contacts: contacts}, nil
}

func (s *GRPCServer) GetContact(ctx context.Context, req *api.GetContactRequest) (*api.GetContactResponse, error) {
	c, err := s.svc.Contacts.FindByID(ctx, identityFrom(ctx), req.ContactID)
	if err != nil {
		return nil, s.toStatus(ctx, "GetContact", err)
	}
	return &api.GetContactResponse{Contact: *c}, nil
}

func (s *GRPCServer) ApplyOutcome(ctx context.Context, req *api.ApplyOutcomeRequest) (*api.ApplyOutcomeResponse, error) {
	res, err := s.svc.Outcomes.ApplyOutcome(ctx, identityFrom(ctx), services.OutcomeRequest{
		TargetID:         req.TargetID,
		CallOutcome:      req.CallOutcome,
		MessagingOutcome: req.MessagingOutcome,
		PersonResponse:   req.PersonResponse,
		Note:             req.Note,
		Observations:     req.Observations,
		TemplateName:     req.TemplateName,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "ApplyOutcome", err)
	}
	return &api.ApplyOutcomeResponse{NewState: res.NewState, Contact: res.Contact, Record: res.Record, Entries: res.Entries}, nil
}

func (s *GRPCServer) ListBase(ctx context.Context, req *api.ListBaseRequest) (*api.ListBaseResponse, error) {
	page, err := s.svc.Base.Page(ctx, identityFrom(ctx), services.BasePageRequest{Filter: req.Filter, Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, s.toStatus(ctx, "ListBase", err)
	}
	return &api.ListBaseResponse{Records: page.Records, Total: page.Total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *GRPCServer) Stats(ctx context.Context, _ *api.StatsRequest) (*api.StatsResponse, error) {
	st, err := s.svc.Base.Stats(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "Stats", err)
	}
	return &api.StatsResponse{Pending: st.Pending, Attended: st.Attended, Total: st.Total, Timeline: st.Timeline}, nil
}

func (s *GRPCServer) AutoAssign(ctx context.Context, req *api.AutoAssignRequest) (*api.AutoAssignResponse, error) {
	res, err := s.svc.Assignments.AutoAssign(ctx, identityFrom(ctx), req.Count)
	if err != nil {
		return nil, s.toStatus(ctx, "AutoAssign", err)
	}
	out := &api.AutoAssignResponse{Assigned: res.Assigned}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, api.AllocationFailure{NationalID: f.NationalID, Error: f.Error})
	}
	return out, nil
}

func (s *GRPCServer) Assign(ctx context.Context, req *api.AssignRequest) (*api.AssignResponse, error) {
	res, err := s.svc.Assignments.Assign(ctx, identityFrom(ctx), services.AssignRequest{
		ContactID:  req.ContactID,
		NationalID: req.NationalID,
		UserID:     req.UserID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "Assign", err)
	}
	return &api.AssignResponse{Assignment: res.Assignment, Created: res.Created}, nil
}

func (s *GRPCServer) ListAssignments(ctx context.Context, _ *api.ListAssignmentsRequest) (*api.ListAssignmentsResponse, error) {
	all, err := s.svc.Assignments.List(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "ListAssignments", err)
	}
	return &api.ListAssignmentsResponse{Assignments: all}, nil
}

func (s *GRPCServer) DeactivateAssignment(ctx context.Context, req *api.DeactivateAssignmentRequest) (*api.DeactivateAssignmentResponse, error) {
	a, err := s.svc.Assignments.Deactivate(ctx, identityFrom(ctx), req.AssignmentID)
	if err != nil {
		return nil, s.toStatus(ctx, "DeactivateAssignment", err)
	}
	return &api.DeactivateAssignmentResponse{Assignment: *a}, nil
}

func (s *GRPCServer) MyQueue(ctx context.Context, req *api.MyQueueRequest) (*api.MyQueueResponse, error) {
	q, err := s.svc.Assignments.MyQueue(ctx, identityFrom(ctx), req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, "MyQueue", err)
	}
	return &api.MyQueueResponse{Items: q.Items, Pending: q.Pending, Assigned: q.Assigned}, nil
}

func (s *GRPCServer) ListActivity(ctx context.Context, req *api.ListActivityRequest) (*api.ListActivityResponse, error) {
	entries, err := s.svc.Ledger.List(ctx, identityFrom(ctx), req.Key)
	if err != nil {
		return nil, s.toStatus(ctx, "ListActivity", err)
	}
	return &api.ListActivityResponse{Entries: entries}, nil
}

func (s *GRPCServer) TeamReport(ctx context.Context, _ *api.TeamReportRequest) (*api.TeamReportResponse, error) {
	members, err := s.svc.Reports.TeamReport(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "TeamReport", err)
	}
	out := &api.TeamReportResponse{Members: make([]api.MemberProgress, len(members))}
	for i, m := range members {
		out.Members[i] = api.MemberProgress(m)
	}
	return out, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	users, err := s.svc.Users.ListUsers(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "ListUsers", err)
	}
	return &api.ListUsersResponse{Users: users}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.CreateUserResponse, error) {
	u, err := s.svc.Users.CreateUser(ctx, identityFrom(ctx), services.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "CreateUser", err)
	}
	return &api.CreateUserResponse{User: *u}, nil
}

func (s *GRPCServer) ListTemplates(ctx context.Context, _ *api.ListTemplatesRequest) (*api.ListTemplatesResponse, error) {
	list, err := s.svc.Templates.List(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "ListTemplates", err)
	}
	return &api.ListTemplatesResponse{Templates: list}, nil
}

func (s *GRPCServer) SaveTemplate(ctx context.Context, req *api.SaveTemplateRequest) (*api.SaveTemplateResponse, error) {
	t, err := s.svc.Templates.Save(ctx, identityFrom(ctx), req.Template)
	if err != nil {
		return nil, s.toStatus(ctx, "SaveTemplate", err)
	}
	return &api.SaveTemplateResponse{Template: *t}, nil
}

func (s *GRPCServer) RenderTemplate(ctx context.Context, req *api.RenderTemplateRequest) (*api.RenderTemplateResponse, error) {
	res, err := s.svc.Templates.Render(ctx, identityFrom(ctx), services.RenderRequest{
		TemplateID: req.TemplateID,
		Content:    req.Content,
		TargetID:   req.TargetID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "RenderTemplate", err)
	}
	return &api.RenderTemplateResponse{Text: res.Text}, nil
}

func (s *GRPCServer) ExportWorkbook(ctx context.Context, _ *api.ExportWorkbookRequest) (*api.ExportWorkbookResponse, error) {
	res, err := s.svc.Exports.Export(ctx, identityFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "ExportWorkbook", err)
	}
	return &api.ExportWorkbookResponse{Key: res.Key, URL: res.URL, ExpiresAt: res.ExpiresAt, Rows: res.Rows}, nil
}

var _ api.OutreachServiceServer = (*GRPCServer)(nil)

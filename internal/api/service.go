package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophreach.OutreachService"

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods need no access token.
var PublicMethods = map[string]bool{
	FullMethod("Login"):          true,
	FullMethod("Register"):       true,
	FullMethod("SearchContacts"): true,
	FullMethod("Catalog"):        true,
}

// OutreachServiceServer is implemented by the server.
type OutreachServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	SearchContacts(context.Context, *SearchContactsRequest) (*SearchContactsResponse, error)
	Catalog(context.Context, *CatalogRequest) (*CatalogResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
	ListContacts(context.Context, *ListContactsRequest) (*ListContactsResponse, error)
	GetContact(context.Context, *GetContactRequest) (*GetContactResponse, error)
	ApplyOutcome(context.Context, *ApplyOutcomeRequest) (*ApplyOutcomeResponse, error)
	ListBase(context.Context, *ListBaseRequest) (*ListBaseResponse, error)
	Stats(context.Context, *StatsRequest) (*StatsResponse, error)
	AutoAssign(context.Context, *AutoAssignRequest) (*AutoAssignResponse, error)
	Assign(context.Context, *AssignRequest) (*AssignResponse, error)
	ListAssignments(context.Context, *ListAssignmentsRequest) (*ListAssignmentsResponse, error)
	DeactivateAssignment(context.Context, *DeactivateAssignmentRequest) (*DeactivateAssignmentResponse, error)
	MyQueue(context.Context, *MyQueueRequest) (*MyQueueResponse, error)
	ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error)
	TeamReport(context.Context, *TeamReportRequest) (*TeamReportResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error)
	ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error)
	SaveTemplate(context.Context, *SaveTemplateRequest) (*SaveTemplateResponse, error)
	RenderTemplate(context.Context, *RenderTemplateRequest) (*RenderTemplateResponse, error)
	ExportWorkbook(context.Context, *ExportWorkbookRequest) (*ExportWorkbookResponse, error)
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// UnimplementedOutreachServiceServer can be embedded for forward
// compatibility.
type UnimplementedOutreachServiceServer struct{}

func (UnimplementedOutreachServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedOutreachServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedOutreachServiceServer) SearchContacts(context.Context, *SearchContactsRequest) (*SearchContactsResponse, error) {
	return nil, unimplemented("SearchContacts")
}
func (UnimplementedOutreachServiceServer) Catalog(context.Context, *CatalogRequest) (*CatalogResponse, error) {
	return nil, unimplemented("Catalog")
}
func (UnimplementedOutreachServiceServer) Me(context.Context, *MeRequest) (*MeResponse, error) {
	return nil, unimplemented("Me")
}
func (UnimplementedOutreachServiceServer) ListContacts(context.Context, *ListContactsRequest) (*ListContactsResponse, error) {
	return nil, unimplemented("ListContacts")
}
func (UnimplementedOutreachServiceServer) GetContact(context.Context, *GetContactRequest) (*GetContactResponse, error) {
	return nil, unimplemented("GetContact")
}
func (UnimplementedOutreachServiceServer) ApplyOutcome(context.Context, *ApplyOutcomeRequest) (*ApplyOutcomeResponse, error) {
	return nil, unimplemented("ApplyOutcome")
}
func (UnimplementedOutreachServiceServer) ListBase(context.Context, *ListBaseRequest) (*ListBaseResponse, error) {
	return nil, unimplemented("ListBase")
}
func (UnimplementedOutreachServiceServer) Stats(context.Context, *StatsRequest) (*StatsResponse, error) {
	return nil, unimplemented("Stats")
}
func (UnimplementedOutreachServiceServer) AutoAssign(context.Context, *AutoAssignRequest) (*AutoAssignResponse, error) {
	return nil, unimplemented("AutoAssign")
}
func (UnimplementedOutreachServiceServer) Assign(context.Context, *AssignRequest) (*AssignResponse, error) {
	return nil, unimplemented("Assign")
}
func (UnimplementedOutreachServiceServer) ListAssignments(context.Context, *ListAssignmentsRequest) (*ListAssignmentsResponse, error) {
	return nil, unimplemented("ListAssignments")
}
func (UnimplementedOutreachServiceServer) DeactivateAssignment(context.Context, *DeactivateAssignmentRequest) (*DeactivateAssignmentResponse, error) {
	return nil, unimplemented("DeactivateAssignment")
}
func (UnimplementedOutreachServiceServer) MyQueue(context.Context, *MyQueueRequest) (*MyQueueResponse, error) {
	return nil, unimplemented("MyQueue")
}
func (UnimplementedOutreachServiceServer) ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error) {
	return nil, unimplemented("ListActivity")
}
func (UnimplementedOutreachServiceServer) TeamReport(context.Context, *TeamReportRequest) (*TeamReportResponse, error) {
	return nil, unimplemented("TeamReport")
}
func (UnimplementedOutreachServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, unimplemented("ListUsers")
}
func (UnimplementedOutreachServiceServer) CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error) {
	return nil, unimplemented("CreateUser")
}
func (UnimplementedOutreachServiceServer) ListTemplates(context.Context, *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	return nil, unimplemented("ListTemplates")
}
func (UnimplementedOutreachServiceServer) SaveTemplate(context.Context, *SaveTemplateRequest) (*SaveTemplateResponse, error) {
	return nil, unimplemented("SaveTemplate")
}
func (UnimplementedOutreachServiceServer) RenderTemplate(context.Context, *RenderTemplateRequest) (*RenderTemplateResponse, error) {
	return nil, unimplemented("RenderTemplate")
}
func (UnimplementedOutreachServiceServer) ExportWorkbook(context.Context, *ExportWorkbookRequest) (*ExportWorkbookResponse, error) {
	return nil, unimplemented("ExportWorkbook")
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](method string, call func(OutreachServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OutreachServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OutreachServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OutreachServiceDesc is the grpc.ServiceDesc for OutreachService.
var OutreachServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OutreachServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler("Login", OutreachServiceServer.Login)},
		{MethodName: "Register", Handler: unaryHandler("Register", OutreachServiceServer.Register)},
		{MethodName: "SearchContacts", Handler: unaryHandler("SearchContacts", OutreachServiceServer.SearchContacts)},
		{MethodName: "Catalog", Handler: unaryHandler("Catalog", OutreachServiceServer.Catalog)},
		{MethodName: "Me", Handler: unaryHandler("Me", OutreachServiceServer.Me)},
		{MethodName: "ListContacts", Handler: unaryHandler("ListContacts", OutreachServiceServer.ListContacts)},
		{MethodName: "GetContact", Handler: unaryHandler("GetContact", OutreachServiceServer.GetContact)},
		{MethodName: "ApplyOutcome", Handler: unaryHandler("ApplyOutcome", OutreachServiceServer.ApplyOutcome)},
		{MethodName: "ListBase", Handler: unaryHandler("ListBase", OutreachServiceServer.ListBase)},
		{MethodName: "Stats", Handler: unaryHandler("Stats", OutreachServiceServer.Stats)},
		{MethodName: "AutoAssign", Handler: unaryHandler("AutoAssign", OutreachServiceServer.AutoAssign)},
		{MethodName: "Assign", Handler: unaryHandler("Assign", OutreachServiceServer.Assign)},
		{MethodName: "ListAssignments", Handler: unaryHandler("ListAssignments", OutreachServiceServer.ListAssignments)},
		{MethodName: "DeactivateAssignment", Handler: unaryHandler("DeactivateAssignment", OutreachServiceServer.DeactivateAssignment)},
		{MethodName: "MyQueue", Handler: unaryHandler("MyQueue", OutreachServiceServer.MyQueue)},
		{MethodName: "ListActivity", Handler: unaryHandler("ListActivity", OutreachServiceServer.ListActivity)},
		{MethodName: "TeamReport", Handler: unaryHandler("TeamReport", OutreachServiceServer.TeamReport)},
		{MethodName: "ListUsers", Handler: unaryHandler("ListUsers", OutreachServiceServer.ListUsers)},
		{MethodName: "CreateUser", Handler: unaryHandler("CreateUser", OutreachServiceServer.CreateUser)},
		{MethodName: "ListTemplates", Handler: unaryHandler("ListTemplates", OutreachServiceServer.ListTemplates)},
		{MethodName: "SaveTemplate", Handler: unaryHandler("SaveTemplate", OutreachServiceServer.SaveTemplate)},
		{MethodName: "RenderTemplate", Handler: unaryHandler("RenderTemplate", OutreachServiceServer.RenderTemplate)},
		{MethodName: "ExportWorkbook", Handler: unaryHandler("ExportWorkbook", OutreachServiceServer.ExportWorkbook)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophreach/outreach.json",
}

func RegisterOutreachServiceServer(s grpc.ServiceRegistrar, srv OutreachServiceServer) {
	s.RegisterService(&OutreachServiceDesc, srv)
}

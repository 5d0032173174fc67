package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls OutreachService over cc. Every call is sent with the JSON
// content subtype.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts)
}

func (c *Client) SearchContacts(ctx context.Context, in *SearchContactsRequest, opts ...grpc.CallOption) (*SearchContactsResponse, error) {
	return invoke[SearchContactsResponse](ctx, c.cc, "SearchContacts", in, opts)
}

func (c *Client) Catalog(ctx context.Context, in *CatalogRequest, opts ...grpc.CallOption) (*CatalogResponse, error) {
	return invoke[CatalogResponse](ctx, c.cc, "Catalog", in, opts)
}

func (c *Client) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, "Me", in, opts)
}

func (c *Client) ListContacts(ctx context.Context, in *ListContactsRequest, opts ...grpc.CallOption) (*ListContactsResponse, error) {
	return invoke[ListContactsResponse](ctx, c.cc, "ListContacts", in, opts)
}

func (c *Client) GetContact(ctx context.Context, in *GetContactRequest, opts ...grpc.CallOption) (*GetContactResponse, error) {
	return invoke[GetContactResponse](ctx, c.cc, "GetContact", in, opts)
}

func (c *Client) ApplyOutcome(ctx context.Context, in *ApplyOutcomeRequest, opts ...grpc.CallOption) (*ApplyOutcomeResponse, error) {
	return invoke[ApplyOutcomeResponse](ctx, c.cc, "ApplyOutcome", in, opts)
}

func (c *Client) ListBase(ctx context.Context, in *ListBaseRequest, opts ...grpc.CallOption) (*ListBaseResponse, error) {
	return invoke[ListBaseResponse](ctx, c.cc, "ListBase", in, opts)
}

func (c *Client) Stats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	return invoke[StatsResponse](ctx, c.cc, "Stats", in, opts)
}

func (c *Client) AutoAssign(ctx context.Context, in *AutoAssignRequest, opts ...grpc.CallOption) (*AutoAssignResponse, error) {
	return invoke[AutoAssignResponse](ctx, c.cc, "AutoAssign", in, opts)
}

func (c *Client) Assign(ctx context.Context, in *AssignRequest, opts ...grpc.CallOption) (*AssignResponse, error) {
	return invoke[AssignResponse](ctx, c.cc, "Assign", in, opts)
}

func (c *Client) ListAssignments(ctx context.Context, in *ListAssignmentsRequest, opts ...grpc.CallOption) (*ListAssignmentsResponse, error) {
	return invoke[ListAssignmentsResponse](ctx, c.cc, "ListAssignments", in, opts)
}

func (c *Client) DeactivateAssignment(ctx context.Context, in *DeactivateAssignmentRequest, opts ...grpc.CallOption) (*DeactivateAssignmentResponse, error) {
	return invoke[DeactivateAssignmentResponse](ctx, c.cc, "DeactivateAssignment", in, opts)
}

func (c *Client) MyQueue(ctx context.Context, in *MyQueueRequest, opts ...grpc.CallOption) (*MyQueueResponse, error) {
	return invoke[MyQueueResponse](ctx, c.cc, "MyQueue", in, opts)
}

func (c *Client) ListActivity(ctx context.Context, in *ListActivityRequest, opts ...grpc.CallOption) (*ListActivityResponse, error) {
	return invoke[ListActivityResponse](ctx, c.cc, "ListActivity", in, opts)
}

func (c *Client) TeamReport(ctx context.Context, in *TeamReportRequest, opts ...grpc.CallOption) (*TeamReportResponse, error) {
	return invoke[TeamReportResponse](ctx, c.cc, "TeamReport", in, opts)
}

func (c *Client) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, "ListUsers", in, opts)
}

func (c *Client) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserResponse, error) {
	return invoke[CreateUserResponse](ctx, c.cc, "CreateUser", in, opts)
}

func (c *Client) ListTemplates(ctx context.Context, in *ListTemplatesRequest, opts ...grpc.CallOption) (*ListTemplatesResponse, error) {
	return invoke[ListTemplatesResponse](ctx, c.cc, "ListTemplates", in, opts)
}

func (c *Client) SaveTemplate(ctx context.Context, in *SaveTemplateRequest, opts ...grpc.CallOption) (*SaveTemplateResponse, error) {
	return invoke[SaveTemplateResponse](ctx, c.cc, "SaveTemplate", in, opts)
}

func (c *Client) RenderTemplate(ctx context.Context, in *RenderTemplateRequest, opts ...grpc.CallOption) (*RenderTemplateResponse, error) {
	return invoke[RenderTemplateResponse](ctx, c.cc, "RenderTemplate", in, opts)
}

func (c *Client) ExportWorkbook(ctx context.Context, in *ExportWorkbookRequest, opts ...grpc.CallOption) (*ExportWorkbookResponse, error) {
	return invoke[ExportWorkbookResponse](ctx, c.cc, "ExportWorkbook", in, opts)
}

package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophreach/internal/api"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	CreateUser(ctx context.Context, id *models.Identity, req services.CreateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, id *models.Identity) ([]models.User, error)
	Me(ctx context.Context, id *models.Identity) (*models.Identity, error)
}

type contactService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.RegisterResult, error)
	FindByID(ctx context.Context, id *models.Identity, contactID string) (*models.Contact, error)
	ListVisibleTo(ctx context.Context, id *models.Identity) ([]models.Contact, error)
	Search(ctx context.Context, query string) ([]models.ContactMatch, error)
}

type baseService interface {
	Page(ctx context.Context, id *models.Identity, req services.BasePageRequest) (*services.BasePage, error)
	Stats(ctx context.Context, id *models.Identity) (*services.Stats, error)
}

type assignmentService interface {
	AutoAssign(ctx context.Context, id *models.Identity, count int) (*services.AllocationResult, error)
	Assign(ctx context.Context, id *models.Identity, req services.AssignRequest) (*services.AssignResult, error)
	Deactivate(ctx context.Context, id *models.Identity, assignmentID string) (*models.Assignment, error)
	List(ctx context.Context, id *models.Identity) ([]models.Assignment, error)
	MyQueue(ctx context.Context, id *models.Identity, limit int) (*services.Queue, error)
}

type outcomeService interface {
	ApplyOutcome(ctx context.Context, id *models.Identity, req services.OutcomeRequest) (*services.OutcomeResult, error)
}

type ledgerService interface {
	List(ctx context.Context, id *models.Identity, key string) ([]models.Activity, error)
}

type reportService interface {
	TeamReport(ctx context.Context, id *models.Identity) ([]services.MemberProgress, error)
}

type templateService interface {
	Catalog() services.Catalog
	List(ctx context.Context, id *models.Identity) ([]models.Template, error)
	Save(ctx context.Context, id *models.Identity, t models.Template) (*models.Template, error)
	Render(ctx context.Context, id *models.Identity, req services.RenderRequest) (*services.RenderResult, error)
}

type exportService interface {
	Export(ctx context.Context, id *models.Identity) (*services.ExportResult, error)
}

// Services bundles the business logic the handlers delegate to.
type Services struct {
	Users       userService
	Contacts    contactService
	Base        baseService
	Assignments assignmentService
	Outcomes    outcomeService
	Ledger      ledgerService
	Reports     reportService
	Templates   templateService
	Exports     exportService
}

type GRPCServer struct {
	api.UnimplementedOutreachServiceServer
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterOutreachServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

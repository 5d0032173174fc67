// Package server initializes and runs the outreach server.
// It opens the record store and the allocation lock, wires the services
// and serves the gRPC endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/claims"
	"github.com/dmitrijs2005/gophreach/internal/server/config"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/server/services"
	"github.com/dmitrijs2005/gophreach/internal/server/store"

	gs "github.com/dmitrijs2005/gophreach/internal/server/grpc"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	backend      store.Backend
	releaseLock  func() error
	services     gs.Services
	syncLogger   func() error
	closeOnce    sync.Once
	closeResults error
}

// NewLogger builds the logger backend named by c.LogBackend.
func NewLogger(c *config.Config) (logging.Logger, func() error, error) {
	switch strings.ToLower(c.LogBackend) {
	case "zap":
		z, err := logging.NewZap(c.LogFormat, c.LogLevel, "gophreach")
		if err != nil {
			return nil, nil, fmt.Errorf("logger init error: %w", err)
		}
		return z, z.Sync, nil
	default:
		return logging.NewSlog(os.Stdout, c.LogFormat, c.LogLevel), func() error { return nil }, nil
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, syncLogger, err := NewLogger(c)
	if err != nil {
		return nil, err
	}

	backend, err := store.Open(ctx, store.Options{Driver: c.StoreDriver, DSN: c.DatabaseDSN, WorkbookPath: c.WorkbookPath})
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	locker, releaseLock, err := claims.New(ctx, claims.Options{
		Mode:          c.ClaimLockMode,
		TTL:           c.ClaimTTL,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("claim lock init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		backend:     backend,
		releaseLock: releaseLock,
		services:    NewServices(repomanager.NewStoreRepositoryManager(backend), locker, c, logger),
		syncLogger:  syncLogger,
	}, nil
}

// NewServices wires every service over one repository manager.
func NewServices(m repomanager.RepositoryManager, locker claims.Locker, c *config.Config, logger logging.Logger) gs.Services {
	ledger := services.NewLedgerService(m, logger)
	return gs.Services{
		Users:    services.NewUserService(m, ledger, c, logger),
		Contacts: services.NewContactService(m, ledger, logger),
		Base:     services.NewBaseService(m, ledger, logger),
		Assignments: services.NewAssignmentService(m, ledger, locker, services.AllocatorOptions{
			Concurrency:      c.AllocationConcurrency,
			DefaultBatchSize: c.DefaultBatchSize,
			QueueLimit:       c.QueueLimit,
		}, logger),
		Outcomes:  services.NewOutcomeService(m, ledger, logger),
		Ledger:    ledger,
		Reports:   services.NewReportService(m, logger),
		Templates: services.NewTemplateService(m, c.Event(), logger),
		Exports:   services.NewExportService(m, c, logger),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver, "claim_lock", app.config.ClaimLockMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "shutdown", "error", err)
	}
}

// Close releases the store and the lock connection. It is safe to call
// more than once.
func (app *App) Close() error {
	app.closeOnce.Do(func() {
		var errs []error
		if err := app.releaseLock(); err != nil {
			errs = append(errs, err)
		}
		if err := app.backend.Close(); err != nil {
			errs = append(errs, err)
		}
		_ = app.syncLogger()
		app.closeResults = errors.Join(errs...)
	})
	return app.closeResults
}

// Services exposes the wired services to tools sharing the server process
// setup, such as the seeding command.
func (app *App) Services() gs.Services { return app.services }

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	usermemory "github.com/Apurer/user-management-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/user-management-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/user-management-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/user-management-api/internal/domains/users/application"
	userports "github.com/Apurer/user-management-api/internal/domains/users/ports"
	"github.com/Apurer/user-management-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/user-management-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/user-management-api/internal/platform/postgres"
	"github.com/Apurer/user-management-api/internal/server"
)

const serviceName = "user-management-api"

// Run boots the user management HTTP API and blocks until ctx is cancelled
// or a termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	userRepo, cleanupRepo, err := buildUserRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupRepo()

	coreUserService := userapp.NewService(userRepo, userapp.WithAgeLimit(cfg.UserAgeLimit))
	userService := userobs.New(
		coreUserService,
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	router := newRouter(userService, logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("user management API listening", slog.String("addr", srv.Addr), slog.Int("age_limit", coreUserService.AgeLimit()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("user management API exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down user management API", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func newRouter(userService userports.Service, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		server.Recovery(),
		server.RequestID(),
		otelgin.Middleware(serviceName),
		server.AccessLog(logger),
	)
	return server.NewRouterWithGinEngine(router, server.ApiHandleFunctions{
		UserAPI: server.NewUserAPI(userService),
	})
}

// buildUserRepository picks PostgreSQL when a DSN is configured and the
// in-memory store otherwise. A configured but unreachable database is fatal.
func buildUserRepository(ctx context.Context, cfg Config, logger *slog.Logger) (userports.Repository, func(), error) {
	db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN, cfg.Pool, logger)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return usermemory.NewRepository(), cleanup, nil
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate users schema: %w", err)
	}
	logger.Info("user repository configured with postgres")
	return userpostgres.NewRepository(db), cleanup, nil
}

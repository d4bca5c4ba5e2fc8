package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore"
	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore/account"
	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	authpkg "github.com/heartmarshall/transcribe-dashboard/internal/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/config"
	authsvc "github.com/heartmarshall/transcribe-dashboard/internal/service/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/blog"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/workspace"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/middleware"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

const (
	janitorInterval    = time.Minute
	rateLimiterCleanup = 5 * time.Minute
)

type authService interface {
	Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.Result, error)
	Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.Result, error)
	Logout(ctx context.Context) error
	ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error)
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

// Run is the application entry point. It loads configuration, opens the
// account store, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("transcriber", cfg.Transcriber.BaseURL),
	)

	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sessions := session.NewRegistry(NewSessionFactory(cfg, transcriber.New(cfg.Transcriber, logger), logger), logger)

	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	authSvc := authsvc.NewService(logger, account.New(db), sessions, jwtMgr, cfg.Auth)

	limiter := middleware.NewRateLimiter(rateLimiterCleanup)
	defer limiter.Stop()

	handler, err := NewHandler(Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     authSvc,
		Sessions: sessions,
		DB:       db,
		Limiter:  limiter,
		Version:  BuildVersion(),
	})
	if err != nil {
		return err
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go sessions.RunJanitor(janitorCtx, janitorInterval, cfg.Auth.SessionTTL)

	return serve(ctx, NewServer(cfg.Server, handler), cfg.Server.ShutdownTimeout, logger)
}

// NewSessionFactory builds the per-session stores, all sharing one
// transcriber client.
func NewSessionFactory(cfg *config.Config, client *transcriber.Client, logger *slog.Logger) session.Factory {
	gen := blog.SimulatedGenerator{
		OutlineDelay: cfg.Generation.OutlineDelay,
		ArticleDelay: cfg.Generation.ArticleDelay,
	}
	return func(sessionID string) (*workspace.Store, *blog.Store) {
		log := logger.With(slog.String("session_id", sessionID))
		return workspace.New(client, log, workspace.WithUploadTimeout(cfg.Transcriber.UploadTimeout)),
			blog.NewStore(gen, log)
	}
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server", slog.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}

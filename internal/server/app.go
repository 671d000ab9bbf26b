// Package server initializes and runs the authentication server.
// It wires the account store, the credential and token components, the HTTP
// endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/sebak/authd/internal/logging"
	"github.com/sebak/authd/internal/server/auth"
	"github.com/sebak/authd/internal/server/config"
	"github.com/sebak/authd/internal/server/httpapi"
	"github.com/sebak/authd/internal/server/repositories/accounts"
	"github.com/sebak/authd/internal/server/services"
	"github.com/sebak/authd/internal/server/store"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *store.Postgres
	authService *services.AuthService
	rateLimiter *httpapi.RateLimiter
	metrics     *httpapi.Metrics
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is not set")
	}

	// An empty DSN selects the in-memory store: accounts survive only for
	// the lifetime of the process. Meant for local runs without a database.
	var st *store.Postgres
	var repo accounts.Repository
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory account store")
		repo = accounts.NewInMemoryRepository()
	} else {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		st = pg
		repo = pg.Accounts()
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	as := services.NewAuthService(repo, hasher, codec)

	rl := httpapi.NewRateLimiter(httpapi.RateLimiterConfig{
		Rate:            rate.Limit(float64(cfg.LoginRatePerMinute) / 60.0),
		Burst:           cfg.LoginBurst,
		CleanupInterval: 5 * time.Minute,
	})

	return &App{
		config:      cfg,
		logger:      logger,
		store:       st,
		authService: as,
		rateLimiter: rl,
		metrics:     httpapi.NewMetrics(),
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Auth:        app.authService,
		Log:         app.logger,
		Metrics:     app.metrics,
		RateLimiter: app.rateLimiter,
	})

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "server shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.rateLimiter.Stop()

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Error(ctx, "error closing store", "error", err)
		}
	}
}

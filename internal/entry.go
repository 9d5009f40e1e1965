// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tracker/internal/api"
	"github.com/starford/tracker/internal/mcpserver"
	"github.com/starford/tracker/internal/meetingservice"
	"github.com/starford/tracker/internal/sse"
	"github.com/starford/tracker/internal/store"
	pkgconfig "github.com/starford/tracker/pkg/config"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger builds the JSON logger. The returned LevelVar can be changed at runtime.
func newLogger(w io.Writer, level slog.Level) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(level)
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv}))
	slog.SetDefault(logger)
	return logger, lv
}

func newService(cfg *Config, logger *slog.Logger) *meetingservice.Service {
	var st *store.Memory
	if cfg.Store.Seed {
		st = store.NewMemory(store.Seed(time.Now())...)
	} else {
		st = store.NewMemory()
	}
	return meetingservice.NewService(st,
		meetingservice.WithLanguage(cfg.Search.Tag()),
		meetingservice.WithLogger(logger),
	)
}

// watchConfig reloads the config file on change and applies its log level.
// Other settings take effect on restart.
func watchConfig(ctx context.Context, path string, lv *slog.LevelVar, logger *slog.Logger) error {
	return pkgconfig.Watch(ctx, path, logger, func() {
		next := NewDefaultConfig()
		if err := pkgconfig.Load(path, next); err != nil {
			logger.Warn("config reload failed", slog.String("error", err.Error()))
			return
		}
		if next.App.LogLevel != lv.Level() {
			logger.Info("log level changed",
				slog.String("from", lv.Level().String()),
				slog.String("to", next.App.LogLevel.String()))
			lv.Set(next.App.LogLevel)
		}
	})
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, levelVar := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Bool("seed", cfg.Store.Seed),
		slog.String("search_language", cfg.Search.Tag().String()),
		slog.Duration("events_throttle", cfg.Events.Throttle),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc := newService(cfg, logger)

	// SSE broker fed by store notifications.
	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()
	cancelSub := svc.Subscribe(broker.OnStoreChange)
	defer cancelSub()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		g.Go(func() error {
			if err := watchConfig(gCtx, app.configPath, levelVar, logger); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the config watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr so they
// do not corrupt the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, _ := newLogger(os.Stderr, cfg.App.LogLevel)
	logger.Info("MCP server starting",
		slog.Bool("seed", cfg.Store.Seed),
		slog.String("search_language", cfg.Search.Tag().String()))

	srv := mcpserver.New(newService(cfg, logger))
	if err := srv.Listen(ctx, os.Stdin, os.Stdout, logger); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}

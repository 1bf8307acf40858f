package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skusdev/profile/internal/config"
	"github.com/skusdev/profile/internal/handler"
	"github.com/skusdev/profile/internal/repository/sqlite"
	"github.com/skusdev/profile/internal/roster"
	"github.com/skusdev/profile/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	repo := db.Members()
	store := roster.NewStore()
	memberService := service.NewMemberService(store, repo)

	// Seed from the remote roster API when configured, otherwise from the
	// local database. Either way an error or empty result falls back to the
	// built-in sample data.
	var source service.SourceFunc
	if cfg.MemberSourceURL != "" {
		source = service.NewHTTPSource(cfg.MemberSourceURL).Fetch
	} else {
		source = repo.List
	}
	loader := service.NewLoader(source, repo)
	go loader.Seed(context.Background(), store, time.Now())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewMemberHandler(memberService),
		handler.NewDashboardHandler(store, time.Now),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")
	loader.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

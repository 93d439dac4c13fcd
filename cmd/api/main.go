// Package main is the entry point for the Roamio API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/config"
	"github.com/roamio/backend/internal/handler"
	"github.com/roamio/backend/internal/middleware"
	"github.com/roamio/backend/internal/repo"
	"github.com/roamio/backend/internal/service"
)

// maxBodySize caps request bodies at 1 MiB; the largest legitimate payload is
// a package draft, which is nowhere near that.
const maxBodySize = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Repos and services ----------------------------------------------
	destinations := repo.NewDestinationRepo(pool)
	places := repo.NewPlaceRepo(pool)
	packages := repo.NewPackageRepo(pool)
	users := repo.NewUserRepo(pool)
	creds := repo.NewCredentialRepo(pool)

	catalogSvc := service.NewCatalogService(destinations, places)
	packageSvc := service.NewPackageService(packages, destinations)

	// --- Auth -------------------------------------------------------------
	// The session backend is selected by configuration; exactly one policy is
	// active per process.
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)

	var store auth.Store = auth.NewMemStore()
	if cfg.SessionStorePath != "" {
		store = auth.NewFileStore(cfg.SessionStorePath)
	}

	var backend auth.Backend
	switch cfg.AuthPolicy {
	case config.PolicyMock:
		backend = auth.NewMockBackend(store)
	case config.PolicyDirectory:
		backend = auth.NewDirectoryBackend(creds, users, tokens, store, logger)
	case config.PolicyTable:
		backend = auth.NewTableBackend(users, tokens, store, logger)
	}
	slog.Info("auth backend selected", "policy", cfg.AuthPolicy)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	srvHandler := handler.NewServer(packageSvc, catalogSvc, backend, tokens)
	r.Mount("/", srvHandler.Routes(
		middleware.NewRequireAuth(tokens, users),
		middleware.NewRequireAdmin(),
	))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

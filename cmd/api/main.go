// Package main is the entry point for the seminar planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pkordes/seminar-planner/internal/config"
	"github.com/pkordes/seminar-planner/internal/events"
	"github.com/pkordes/seminar-planner/internal/export"
	"github.com/pkordes/seminar-planner/internal/handler"
	"github.com/pkordes/seminar-planner/internal/middleware"
	"github.com/pkordes/seminar-planner/internal/service"
	"github.com/pkordes/seminar-planner/internal/workspace"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Plan store -------------------------------------------------------
	plans, closeStore, err := openPlanRepo(ctx, cfg)
	if err != nil {
		slog.Error("failed to open plan store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("plan store ready", "driver", cfg.StoreDriver)

	// --- Draft store ------------------------------------------------------
	drafts, closeDrafts, err := openDraftStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open draft store", "error", err)
		os.Exit(1)
	}
	defer closeDrafts()

	// --- Events -----------------------------------------------------------
	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			slog.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		publisher = amqpPub
		slog.Info("publishing plan events", "queue", events.QueueName)
	}

	// --- Exporters --------------------------------------------------------
	// PDF needs a UTF-8 font (PDF_FONT_PATH). Without one, or with one that
	// fails to load, PDF stays out of the registry and requests answer 415.
	registry := export.Default()
	if pdf, err := export.NewPDF(cfg.PDFFontPath); err != nil {
		slog.Warn("PDF export disabled", "font", cfg.PDFFontPath, "error", err)
	} else {
		registry.Register(export.FormatPDF, pdf)
	}

	// --- Services ---------------------------------------------------------
	planSvc := service.NewPlanService(plans, publisher)
	exportSvc := service.NewExportService(plans, registry)
	ws := workspace.New(drafts, planSvc)

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
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(planSvc, exportSvc, ws).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// Writes get longer than reads because bulk exports render every plan.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

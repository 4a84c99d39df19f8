package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quorumfin/council/internal/adapter/cached"
	"github.com/quorumfin/council/internal/adapter/heuristic"
	councilhttp "github.com/quorumfin/council/internal/adapter/http"
	"github.com/quorumfin/council/internal/adapter/llmjudge"
	"github.com/quorumfin/council/internal/adapter/memstore"
	councilnats "github.com/quorumfin/council/internal/adapter/nats"
	otelcouncil "github.com/quorumfin/council/internal/adapter/otel"
	"github.com/quorumfin/council/internal/adapter/postgres"
	"github.com/quorumfin/council/internal/adapter/ristretto"
	"github.com/quorumfin/council/internal/adapter/ws"
	"github.com/quorumfin/council/internal/config"
	"github.com/quorumfin/council/internal/logger"
	"github.com/quorumfin/council/internal/port/datastore"
	"github.com/quorumfin/council/internal/port/evaluator"
	"github.com/quorumfin/council/internal/resilience"
	"github.com/quorumfin/council/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"max_rounds", cfg.Council.MaxRounds,
		"confidence_threshold", cfg.Council.ConfidenceThreshold,
	)

	ctx := context.Background()

	shutdownTracer := otelcouncil.InitTracer("councild")
	defer func() { _ = shutdownTracer(ctx) }()

	metrics, err := otelcouncil.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Data retrieval ---

	var store datastore.Store
	if os.Getenv("COUNCILD_MEMSTORE") == "true" {
		store = memstore.NewWithFixtures()
		slog.Info("using in-memory datastore with demo fixtures")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		slog.Info("postgres connected")

		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		slog.Info("migrations applied")

		recordCache, err := ristretto.New(cfg.Cache.MaxSizeMB * 1024 * 1024)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer recordCache.Close()

		store = cached.New(postgres.NewStore(pool), recordCache, cfg.Cache.TTL)
	}

	// --- Messaging ---

	queue, err := councilnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	hub := ws.NewHub()

	// --- Council ---

	registry := evaluator.NewRegistry()
	router := service.NewRouter(cfg.Council.Routing)
	executor := service.NewRoundExecutor(registry, router, cfg.Council.EvaluatorTimeout, metrics)

	rules := service.RuleStrategy{Threshold: cfg.Council.ConfidenceThreshold}
	var strategy service.Strategy = rules
	if cfg.Judge.URL != "" {
		judgeClient := llmjudge.NewClient(cfg.Judge)
		judgeClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
		strategy = service.NewJudgmentStrategy(judgeClient, cfg.Judge.Timeout, cfg.Council.MaxRounds, rules, metrics)
		slog.Info("judgment strategy active", "model", cfg.Judge.Model)
	} else {
		slog.Info("rule strategy active", "threshold", cfg.Council.ConfidenceThreshold)
	}

	policy := service.NewTerminationPolicy(strategy, cfg.Council.MaxRounds)
	svc := service.NewCouncilService(store, registry, router, executor, policy,
		cfg.Council.MaxRounds, queue, hub, metrics)

	svc.Register(heuristic.NameRiskAnalysis, heuristic.NewRiskAnalysis())
	svc.Register(heuristic.NameDevilsAdvocate, heuristic.NewDevilsAdvocate())
	svc.Register(heuristic.NamePersonalSuitability, heuristic.NewPersonalSuitability())
	svc.Register(heuristic.NameMarketAnalysis, heuristic.NewMarketAnalysis())
	svc.Register(heuristic.NameFeasibilityAnalysis, heuristic.NewFeasibilityAnalysis())

	// --- HTTP ---

	handlers := councilhttp.NewHandlers(svc)

	r := chi.NewRouter()
	r.Use(councilhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(councilhttp.Logger)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Minute))

	r.Get("/ws", hub.HandleWS)
	councilhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

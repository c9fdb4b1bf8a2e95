package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/kislikjeka/finboard/internal/infra/gateway/finapi"
	"github.com/kislikjeka/finboard/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/finboard/internal/infra/redis"
	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/dashboard"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/internal/transport/httpapi"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finboard/migrations"
	"github.com/kislikjeka/finboard/pkg/config"
	"github.com/kislikjeka/finboard/pkg/logger"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting finboard",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations applied")
	}

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	health := handler.NewHealthHandler().Check("database", db, true)

	// Query cache: Redis when configured, otherwise in-process
	var store query.Store
	if cfg.RedisURL != "" {
		redisClient, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		cache := infraRedis.NewCache(redisClient, log)
		store = cache
		health.Check("cache", cache, true)
		log.Info("Redis query cache enabled")
	} else {
		store = query.NewMemoryStore()
		log.Info("In-memory query cache enabled")
	}
	queries := query.NewManager(store, cfg.CacheTTL, cfg.CacheIdleTTL, log)

	// Finance API gateway
	api := finapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, log)
	health.Check("finance_api", api, false)

	// Sessions
	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		log.Error("Failed to initialize session sealer", "error", err)
		os.Exit(1)
	}
	sessionSvc := session.NewService(
		postgres.NewSessionRepository(db.Pool),
		api,
		sealer,
		session.NewTokenService(cfg.SessionSecret),
		queries,
		session.Config{TTL: cfg.SessionTTL, ProbeTTL: cfg.AuthProbeTTL},
		log,
	)

	// Domain services
	accountSvc := account.NewService(api)
	categorySvc := category.NewService(api)
	transactionSvc := transaction.NewService(api, categorySvc)
	loanSvc := loan.NewService(api, accountSvc, transactionSvc)
	debtSvc := debt.NewService(api)
	pendingSvc := pending.NewService(api, accountSvc, loanSvc, debtSvc)
	dashboardSvc := dashboard.NewService(accountSvc, loanSvc, pendingSvc, debtSvc)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		TrustProxy:         cfg.TrustProxy,
		Sessions:           sessionSvc,
		RateLimiter:        rateLimiter,
		AuthHandler:        handler.NewAuthHandler(sessionSvc, cfg.CookieSecure, log),
		ScreenHandler:      handler.NewScreenHandler(accountSvc, categorySvc, dashboardSvc, log),
		TransactionHandler: handler.NewTransactionHandler(transactionSvc, log),
		LoanHandler:        handler.NewLoanHandler(loanSvc, log),
		PendingHandler:     handler.NewPendingHandler(pendingSvc, log),
		DebtHandler:        handler.NewDebtHandler(debtSvc, log),
		HealthHandler:      health,
	})

	// Create HTTP server. WriteTimeout leaves room for a slow upstream call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background jobs
	go queries.Run(ctx, 0)
	go sessionSvc.RunCleanup(ctx, sessionCleanupInterval)
	go rateLimiter.Run(ctx)

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}

func migrate(ctx context.Context, databaseURL string) error {
	sqlDB, err := migrations.Open(databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return migrations.Up(ctx, sqlDB)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/internal/cache"
	"github.com/segyhp/family-ledger/internal/config"
	"github.com/segyhp/family-ledger/internal/handler"
	"github.com/segyhp/family-ledger/internal/hijri"
	"github.com/segyhp/family-ledger/internal/logging"
	"github.com/segyhp/family-ledger/internal/receipt"
	"github.com/segyhp/family-ledger/internal/repository"
	"github.com/segyhp/family-ledger/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	var reserver service.ReferenceReserver
	if redisClient != nil {
		defer redisClient.Close()
		reserver = cache.NewReferenceReserver(redisClient, cfg.Redis.ReferenceTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, reference reservation disabled")
	}

	// Initialize repositories
	paymentRepo := repository.NewPaymentRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	// Initialize services
	calendar := hijri.NewManager(cfg.CalendarLocation())
	policy := cfg.LedgerPolicy()

	paymentService := service.NewPaymentService(paymentRepo, memberRepo, calendar, policy, reserver, logger)
	analyticsService := service.NewAnalyticsService(paymentRepo, calendar, policy, logger)
	receiptService := service.NewReceiptService(
		paymentRepo,
		memberRepo,
		receipt.NewBuilder(cfg.OrganizationInfo(), calendar),
		receipt.NewRenderer(cfg.Organization.FontPath),
		logger,
	)

	debug := cfg.IsDevelopment()
	router := handler.NewRouter(handler.Handlers{
		Payments: handler.NewPaymentHandler(paymentService, analyticsService, receiptService, calendar.Location(), debug),
		Reports:  handler.NewReportHandler(analyticsService, debug),
		Calendar: handler.NewCalendarHandler(calendar, debug),
		Members:  handler.NewMemberHandler(paymentService, debug),
		Health:   handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout, logger),
	}, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

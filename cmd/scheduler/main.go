package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/internal/config"
	"github.com/segyhp/family-ledger/internal/hijri"
	"github.com/segyhp/family-ledger/internal/logging"
	"github.com/segyhp/family-ledger/internal/repository"
	"github.com/segyhp/family-ledger/internal/service"
)

const digestTimeout = 2 * time.Minute

func main() {
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
	logger = logger.Named("scheduler")
	logger.Info("starting ledger scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	analytics := service.NewAnalyticsService(
		repository.NewPaymentRepository(db),
		hijri.NewManager(cfg.CalendarLocation()),
		cfg.LedgerPolicy(),
		logger,
	)

	c := cron.New(
		cron.WithParser(config.CronParser),
		cron.WithLocation(cfg.SchedulerLocation()),
		cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
	)

	if _, err := c.AddFunc(cfg.Scheduler.OverdueDigestSpec, func() {
		overdueDigest(analytics, logger)
	}); err != nil {
		logger.Fatal("failed to schedule overdue digest", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started", zap.String("overdue_digest", cfg.Scheduler.OverdueDigestSpec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

// overdueDigest logs the pending payments that are past the grace period.
// Overdue is never written back to the ledger.
func overdueDigest(analytics *service.AnalyticsService, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	overdue, err := analytics.GetOverduePayments(ctx)
	if err != nil {
		logger.Error("overdue digest failed", zap.Error(err))
		return
	}

	total := decimal.Zero
	for _, p := range overdue {
		total = total.Add(p.Amount.OrZero())
	}

	logger.Info("overdue digest",
		zap.Int("count", len(overdue)),
		zap.String("total", total.StringFixed(2)),
	)
	for _, p := range overdue {
		logger.Debug("overdue payment",
			zap.String("reference", p.ReferenceNumber),
			zap.String("payer_id", p.PayerID.String()),
			zap.String("hijri_date", p.HijriDateString),
		)
	}
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().With(zap.Error(err)).Errorw(msg, keysAndValues...)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/pkg/response"
)

type HealthHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler builds the liveness and readiness probes. A nil redis
// client means reference reservation runs without the cache and is not
// checked.
func NewHealthHandler(db *sqlx.DB, redis *redis.Client, timeout time.Duration, logger *zap.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		db:      db,
		redis:   redis,
		timeout: timeout,
		logger:  logger,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	})
}

// Ready performs readiness check including database and redis connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.check(&status, "database", func() error {
		if h.db == nil {
			return errNotConfigured
		}
		return h.db.PingContext(ctx)
	})

	if h.redis != nil {
		h.check(&status, "redis", func() error {
			return h.redis.Ping(ctx).Err()
		})
	} else {
		status.Checks["redis"] = "disabled"
	}

	if status.Status == "error" {
		response.Error(w, http.StatusServiceUnavailable, "service_unavailable",
			"الخدمة غير جاهزة", "Service not ready")
		return
	}

	response.Success(w, status)
}

func (h *HealthHandler) check(status *HealthStatus, name string, ping func() error) {
	if err := ping(); err != nil {
		h.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
		status.Status = "error"
		status.Checks[name] = "failed"
		return
	}
	status.Checks[name] = "ok"
}

var errNotConfigured = errors.New("not configured")

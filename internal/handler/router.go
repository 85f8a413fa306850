package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/pkg/response"
)

// Handlers bundles everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Payments *PaymentHandler
	Reports  *ReportHandler
	Calendar *CalendarHandler
	Members  *MemberHandler
	Health   *HealthHandler
}

// NewRouter wires the HTTP surface. Fixed payment paths are registered
// before /payments/{id} so they are not captured as ids.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	router := mux.NewRouter()

	if h.Health != nil {
		router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	if p := h.Payments; p != nil {
		api.HandleFunc("/payments", p.CreatePayment).Methods(http.MethodPost)
		api.HandleFunc("/payments", p.ListPayments).Methods(http.MethodGet)
		api.HandleFunc("/payments/bulk-status", p.BulkUpdateStatus).Methods(http.MethodPost)
		api.HandleFunc("/payments/statistics", p.Statistics).Methods(http.MethodGet)
		api.HandleFunc("/payments/overdue", p.Overdue).Methods(http.MethodGet)
		api.HandleFunc("/payments/{id}", p.GetPayment).Methods(http.MethodGet)
		api.HandleFunc("/payments/{id}/status", p.UpdateStatus).Methods(http.MethodPatch)
		api.HandleFunc("/payments/{id}/process", p.ProcessPayment).Methods(http.MethodPost)
		api.HandleFunc("/payments/{id}/receipt", p.Receipt).Methods(http.MethodGet)
	}

	if rp := h.Reports; rp != nil {
		api.HandleFunc("/reports/revenue", rp.Revenue).Methods(http.MethodGet)
		api.HandleFunc("/reports/categories", rp.Categories).Methods(http.MethodGet)
		api.HandleFunc("/reports/contributions", rp.Contributions).Methods(http.MethodGet)
		api.HandleFunc("/reports/financial", rp.Financial).Methods(http.MethodGet)
	}

	if c := h.Calendar; c != nil {
		api.HandleFunc("/hijri/current", c.Current).Methods(http.MethodGet)
		api.HandleFunc("/hijri/months", c.Months).Methods(http.MethodGet)
		api.HandleFunc("/hijri/years", c.Years).Methods(http.MethodGet)
	}

	if m := h.Members; m != nil {
		api.HandleFunc("/members/search", m.Search).Methods(http.MethodGet)
		api.HandleFunc("/members/{id}/eligibility", m.Eligibility).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w)
	})

	if logger == nil {
		logger = zap.NewNop()
	}
	return response.CORSMiddleware(response.LoggingMiddleware(logger)(router))
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/service"
	customError "github.com/segyhp/family-ledger/pkg/errors"
	"github.com/segyhp/family-ledger/pkg/response"
	"github.com/segyhp/family-ledger/pkg/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// PaymentService is the ledger surface the payment routes depend on.
type PaymentService interface {
	CreatePayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error)
	GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status string) (*domain.Payment, error)
	ProcessPayment(ctx context.Context, id string, method string) (*domain.Payment, error)
	BulkUpdatePayments(ctx context.Context, updates []domain.StatusUpdate) (*domain.BulkUpdateResult, error)
	SearchMembers(ctx context.Context, query string, limit int) ([]*domain.Member, error)
	MemberEligibility(ctx context.Context, id string) (*domain.EligibilityResponse, error)
}

// ReceiptService renders receipts for settled payments.
type ReceiptService interface {
	GenerateReceipt(ctx context.Context, id string, opts domain.ReceiptOptions) (*domain.RenderedReceipt, error)
}

type PaymentHandler struct {
	payments  PaymentService
	analytics AnalyticsService
	receipts  ReceiptService
	validator *validator.Validate
	location  *time.Location
	debug     bool
}

func NewPaymentHandler(
	payments PaymentService,
	analytics AnalyticsService,
	receipts ReceiptService,
	location *time.Location,
	debug bool,
) *PaymentHandler {
	if location == nil {
		location = time.UTC
	}
	return &PaymentHandler{
		payments:  payments,
		analytics: analytics,
		receipts:  receipts,
		validator: service.NewValidator(),
		location:  location,
		debug:     debug,
	}
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePaymentRequest
	if !decode(w, r, &request) {
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), &request)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Created(w, "تم تسجيل الدفعة بنجاح", "Payment recorded successfully", payment)
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), filter)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, payments)
}

// GetPayment handles GET /api/v1/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetPaymentByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, payment)
}

// UpdateStatus handles PATCH /api/v1/payments/{id}/status
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateStatusRequest
	if !decode(w, r, &request) {
		return
	}
	if err := service.ValidateRequest(h.validator, &request); err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	payment, err := h.payments.UpdatePaymentStatus(r.Context(), mux.Vars(r)["id"], request.Status)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Message(w, http.StatusOK, "تم تحديث حالة الدفعة", "Payment status updated", payment)
}

// ProcessPayment handles POST /api/v1/payments/{id}/process
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.ProcessPaymentRequest
	if !decode(w, r, &request) {
		return
	}
	if err := service.ValidateRequest(h.validator, &request); err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	payment, err := h.payments.ProcessPayment(r.Context(), mux.Vars(r)["id"], request.PaymentMethod)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Message(w, http.StatusOK, "تمت معالجة الدفعة", "Payment processed", payment)
}

// BulkUpdateStatus handles POST /api/v1/payments/bulk-status. Partial
// failures still answer 200; the body lists what failed.
func (h *PaymentHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var request domain.BulkUpdateRequest
	if !decode(w, r, &request) {
		return
	}
	if err := service.ValidateRequest(h.validator, &request); err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	result, err := h.payments.BulkUpdatePayments(r.Context(), request.Updates)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Message(w, http.StatusOK, "تم تنفيذ التحديث الجماعي", "Bulk update applied", result)
}

// Receipt handles GET /api/v1/payments/{id}/receipt
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := domain.ParseReceiptFormat(query.Get("format"))
	if err != nil {
		response.FromError(w, customError.WrapInvalidField("format", "must be one of json, html, pdf"), h.debug)
		return
	}

	opts := domain.ReceiptOptions{
		Format:   format,
		Language: domain.ParseLanguage(query.Get("language")),
	}

	rendered, err := h.receipts.GenerateReceipt(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	if rendered.Format == domain.ReceiptJSON {
		response.Success(w, rendered.Document)
		return
	}
	response.File(w, rendered.ContentType, rendered.Filename, rendered.Content)
}

// Statistics handles GET /api/v1/payments/statistics
func (h *PaymentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	dateRange, err := h.parseRange(r)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	stats, err := h.analytics.GetPaymentStatistics(r.Context(), dateRange)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, stats)
}

// Overdue handles GET /api/v1/payments/overdue
func (h *PaymentHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	payments, err := h.analytics.GetOverduePayments(r.Context())
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, payments)
}

func (h *PaymentHandler) parseFilter(r *http.Request) (domain.PaymentFilter, error) {
	query := r.URL.Query()
	fields := make(map[string]string)
	filter := domain.PaymentFilter{SortBy: domain.ParseSortOrder(query.Get("sort_by"))}

	for _, s := range utils.SplitList(query.Get("status")) {
		status, err := domain.ParseStatus(s)
		if err != nil {
			fields["status"] = "contains an unknown payment status"
			break
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if c := query.Get("category"); c != "" {
		category, err := domain.ParseCategory(c)
		if err != nil {
			fields["category"] = "must be one of subscription, donation, diya, other"
		}
		filter.Category = category
	}

	parseID := func(key string) uuid.UUID {
		raw := query.Get(key)
		if raw == "" {
			return uuid.Nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			fields[key] = "must be a valid UUID"
		}
		return id
	}
	filter.PayerID = parseID("payer_id")
	filter.BeneficiaryID = parseID("beneficiary_id")

	parseInt := func(key string, def int) int {
		n, err := utils.ParseInt(query.Get(key), def)
		if err != nil {
			fields[key] = "must be a whole number"
		}
		return n
	}
	filter.HijriYear = parseInt("hijri_year", 0)
	filter.HijriMonth = parseInt("hijri_month", 0)
	filter.Limit = utils.ClampLimit(parseInt("limit", defaultPageSize), defaultPageSize, maxPageSize)
	if filter.Offset = parseInt("offset", 0); filter.Offset < 0 {
		fields["offset"] = "must not be negative"
	}

	var err error
	if filter.CreatedFrom, err = utils.ParseDate(query.Get("from"), h.location); err != nil {
		fields["from"] = "must be a date (YYYY-MM-DD)"
	}
	if filter.CreatedBefore, err = utils.ParseEndDate(query.Get("to"), h.location); err != nil {
		fields["to"] = "must be a date (YYYY-MM-DD)"
	}

	if len(fields) > 0 {
		return domain.PaymentFilter{}, customError.WrapValidation(fields)
	}
	return filter, nil
}

func (h *PaymentHandler) parseRange(r *http.Request) (*domain.DateRange, error) {
	query := r.URL.Query()
	from, err := utils.ParseDate(query.Get("from"), h.location)
	if err != nil {
		return nil, customError.WrapInvalidField("from", "must be a date (YYYY-MM-DD)")
	}
	to, err := utils.ParseEndDate(query.Get("to"), h.location)
	if err != nil {
		return nil, customError.WrapInvalidField("to", "must be a date (YYYY-MM-DD)")
	}
	if from == nil && to == nil {
		return nil, nil
	}
	return &domain.DateRange{From: from, To: to}, nil
}

// decode reads a JSON body, answering 400 itself when it cannot.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "صيغة الطلب غير صحيحة", "Invalid JSON payload")
		return false
	}
	return true
}

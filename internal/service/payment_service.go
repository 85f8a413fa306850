package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
	"github.com/segyhp/family-ledger/internal/repository"
	customError "github.com/segyhp/family-ledger/pkg/errors"
)

const bulkUpdateWorkers = 4

// PaymentService is the only writer of the payment ledger. It owns the
// status state machine.
type PaymentService struct {
	PaymentRepo repository.PaymentRepository
	MemberRepo  repository.MemberRepository

	calendar    *hijri.Manager
	eligibility *EligibilityChecker
	references  *ReferenceGenerator
	policy      domain.LedgerPolicy
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	memberRepo repository.MemberRepository,
	calendar *hijri.Manager,
	policy domain.LedgerPolicy,
	reserver ReferenceReserver,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("payments")

	return &PaymentService{
		PaymentRepo: paymentRepo,
		MemberRepo:  memberRepo,
		calendar:    calendar,
		eligibility: NewEligibilityChecker(memberRepo, policy.MinimumBalance),
		references:  NewReferenceGenerator(policy.ReferencePrefix, reserver, calendar.Now, logger),
		policy:      policy,
		validate:    NewValidator(),
		logger:      logger,
	}
}

// MemberEligibility reports whether a member may be paid for by someone else.
func (s *PaymentService) MemberEligibility(ctx context.Context, id string) (*domain.EligibilityResponse, error) {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return nil, customError.WrapInvalidField("id", "must be a valid UUID")
	}
	return s.eligibility.Eligibility(ctx, memberID)
}

// SearchMembers looks up beneficiaries by name or phone.
func (s *PaymentService) SearchMembers(ctx context.Context, query string, limit int) ([]*domain.Member, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, customError.WrapInvalidField("q", "must be at least 2 characters")
	}
	members, err := s.MemberRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, s.storeError("search members", err)
	}
	return members, nil
}

// CreatePayment validates the request, checks the parties and writes a new
// pending ledger row with a frozen Hijri snapshot.
func (s *PaymentService) CreatePayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	// 1. Validate input
	category, method, err := s.validateCreate(request)
	if err != nil {
		return nil, err
	}

	payerID := uuid.MustParse(request.PayerID)
	beneficiaryID := payerID
	if request.BeneficiaryID != "" {
		beneficiaryID = uuid.MustParse(request.BeneficiaryID)
	}

	// 2. Check the parties
	if _, err = s.loadMember(ctx, payerID); err != nil {
		return nil, err
	}

	if beneficiaryID != payerID {
		beneficiary, err := s.loadMember(ctx, beneficiaryID)
		if err != nil {
			return nil, err
		}
		if !beneficiary.IsActive() {
			return nil, customError.WrapInvalidField("beneficiary_id", "must be an active member")
		}
		// only the beneficiary's balance matters here
		if !s.eligibility.MeetsMinimum(beneficiary) {
			return nil, customError.WrapInsufficientBalance(beneficiaryID.String())
		}
	}

	// 3. Build the ledger row
	reference, err := s.references.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := s.calendar.Now()
	payment := &domain.Payment{
		ID:              uuid.New(),
		ReferenceNumber: reference,
		PayerID:         payerID,
		BeneficiaryID:   beneficiaryID,
		Category:        category,
		PaymentMethod:   method,
		Amount:          domain.NewAmount(request.Amount.Decimal),
		Status:          domain.StatusPending,
		Notes:           strings.TrimSpace(request.Notes),
		Version:         1,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
	if request.SubscriptionID != "" {
		payment.SubscriptionID = uuid.NullUUID{UUID: uuid.MustParse(request.SubscriptionID), Valid: true}
	}
	payment.SetHijri(s.calendar.ConvertToHijri(now))

	// 4. Save
	if err = s.PaymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapConflict(fmt.Sprintf("payment %s already exists", reference))
		}
		return nil, s.storeError("create payment", err, zap.String("reference", reference))
	}

	s.logger.Info("payment created",
		zap.String("id", payment.ID.String()),
		zap.String("reference", reference),
		zap.String("category", string(category)),
		zap.Bool("on_behalf", payment.OnBehalf()),
	)

	return payment, nil
}

func (s *PaymentService) validateCreate(request *domain.CreatePaymentRequest) (domain.Category, domain.PaymentMethod, error) {
	if request == nil {
		return "", "", customError.WrapInvalidField("request", "is required")
	}

	fields := make(map[string]string)
	if err := s.validate.Struct(request); err != nil {
		fields = fieldErrors(err)
	}

	var category domain.Category
	if _, bad := fields["category"]; !bad {
		c, err := domain.ParseCategory(request.Category)
		if err != nil {
			fields["category"] = "must be one of subscription, donation, diya, other"
		}
		category = c
	}

	switch {
	case !request.Amount.Valid:
		fields["amount"] = "must be a number"
	case !request.Amount.Decimal.IsPositive():
		fields["amount"] = "must be greater than 0"
	case !request.Amount.Decimal.Equal(request.Amount.Decimal.Round(domain.AmountScale)):
		fields["amount"] = "must have at most 2 decimal places"
	case request.Amount.Decimal.GreaterThan(domain.MaxAmount):
		fields["amount"] = "must not exceed " + domain.MaxAmount.StringFixed(domain.AmountScale)
	case request.Amount.Decimal.LessThan(s.policy.MinimumPayment):
		fields["amount"] = "must be at least " + s.policy.MinimumPayment.String()
	}

	if category.RequiresNotes() && strings.TrimSpace(request.Notes) == "" {
		fields["notes"] = "is required for donation and diya payments"
	}

	var method domain.PaymentMethod
	if request.PaymentMethod != "" {
		m, err := domain.ParsePaymentMethod(request.PaymentMethod)
		if err != nil {
			fields["payment_method"] = "is not a supported payment method"
		}
		method = m
	}

	if len(fields) > 0 {
		return "", "", customError.WrapValidation(fields)
	}
	return category, method, nil
}

// GetPaymentByID returns one ledger row.
func (s *PaymentService) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, customError.WrapInvalidField("id", "must be a valid UUID")
	}
	return s.load(ctx, paymentID)
}

// ListPayments returns ledger rows for the admin listing.
func (s *PaymentService) ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	if filter.HijriMonth != 0 {
		if _, err := hijri.MonthProperties(filter.HijriMonth); err != nil {
			return nil, customError.WrapInvalidField("hijri_month", "must be between 1 and 12")
		}
	}

	// overdue is never stored: it is a pending row older than the grace period
	if containsOverdue(filter.Statuses) {
		if len(filter.Statuses) > 1 {
			return nil, customError.WrapInvalidField("status", "overdue cannot be combined with other statuses")
		}
		cutoff := s.calendar.Now().Add(-s.policy.OverdueGrace).UTC()
		filter.Statuses = []domain.Status{domain.StatusPending}
		if filter.CreatedBefore == nil || cutoff.Before(*filter.CreatedBefore) {
			filter.CreatedBefore = &cutoff
		}
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, s.storeError("list payments", err)
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}
	if filter.SortBy == domain.SortHijri {
		s.calendar.SortByHijri(payments)
	}
	return payments, nil
}

// UpdatePaymentStatus moves a payment along the transition table. Asking
// for the current status is a successful no-op.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id string, status string) (*domain.Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, customError.WrapInvalidField("id", "must be a valid UUID")
	}
	target, err := domain.ParseStatus(status)
	if err != nil {
		return nil, customError.WrapInvalidField("status", "is not a known payment status")
	}

	payment, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, payment, target)
}

// ProcessPayment settles a pending or approved payment with the given method.
func (s *PaymentService) ProcessPayment(ctx context.Context, id string, method string) (*domain.Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, customError.WrapInvalidField("id", "must be a valid UUID")
	}
	paymentMethod, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return nil, customError.WrapInvalidField("payment_method", "is not a supported payment method")
	}

	payment, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.StatusPending && payment.Status != domain.StatusApproved {
		return nil, invalidTransition(payment.Status, domain.StatusPaid)
	}

	payment.PaymentMethod = paymentMethod
	return s.transition(ctx, payment, domain.StatusPaid)
}

// BulkUpdatePayments applies every update independently. One failing item
// never blocks or undoes the others; the result attributes each input id.
func (s *PaymentService) BulkUpdatePayments(ctx context.Context, updates []domain.StatusUpdate) (*domain.BulkUpdateResult, error) {
	if len(updates) == 0 {
		return nil, customError.WrapInvalidField("updates", "must contain at least 1 item(s)")
	}

	type outcome struct {
		payment *domain.Payment
		err     error
	}
	outcomes := make([]outcome, len(updates))

	var g errgroup.Group
	g.SetLimit(bulkUpdateWorkers)
	for i, update := range updates {
		i, update := i, update
		g.Go(func() error {
			payment, err := s.UpdatePaymentStatus(ctx, update.ID, update.Status)
			outcomes[i] = outcome{payment: payment, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BulkUpdateResult{
		Succeeded: make([]*domain.Payment, 0, len(updates)),
		Failed:    make([]domain.FailedUpdate, 0),
	}
	for i, o := range outcomes {
		if o.err == nil {
			result.Succeeded = append(result.Succeeded, o.payment)
			continue
		}
		result.Failed = append(result.Failed, domain.FailedUpdate{
			ID:     updates[i].ID,
			Status: updates[i].Status,
			Code:   customError.Code(o.err),
			Error:  publicMessage(o.err),
		})
	}

	s.logger.Info("bulk status update",
		zap.Int("requested", len(updates)),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

func invalidTransition(from, to domain.Status) error {
	next := from.AllowedTransitions()
	allowed := make([]string, len(next))
	for i, st := range next {
		allowed[i] = string(st)
	}
	return customError.WrapInvalidTransition(string(from), string(to), allowed...)
}

func (s *PaymentService) transition(ctx context.Context, payment *domain.Payment, target domain.Status) (*domain.Payment, error) {
	if payment.Status == target {
		return payment, nil
	}

	if !payment.Status.CanTransitionTo(target) {
		return nil, invalidTransition(payment.Status, target)
	}

	if target == domain.StatusPaid {
		fields := make(map[string]string)
		if !payment.PaymentMethod.Valid() {
			fields["payment_method"] = "is required before a payment is marked paid"
		}
		if !payment.Amount.IsPositive() {
			fields["amount"] = "must be a positive amount before a payment is marked paid"
		}
		if len(fields) > 0 {
			return nil, customError.WrapValidation(fields)
		}
		processedAt := s.calendar.Now().UTC()
		payment.ProcessedAt = &processedAt
	}

	from := payment.Status
	expectedVersion := payment.Version
	payment.Status = target

	if err := s.PaymentRepo.UpdateStatus(ctx, payment, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, customError.WrapConflict(fmt.Sprintf("payment %s was modified concurrently", payment.ID))
		}
		return nil, s.storeError("update payment status", err, zap.String("id", payment.ID.String()))
	}

	s.logger.Info("payment status changed",
		zap.String("id", payment.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)

	return payment, nil
}

func (s *PaymentService) load(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(id.String())
	}
	if err != nil {
		return nil, s.storeError("get payment", err, zap.String("id", id.String()))
	}
	return payment, nil
}

func (s *PaymentService) loadMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := s.MemberRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapMemberNotFound(id.String())
	}
	if err != nil {
		return nil, s.storeError("get member", err, zap.String("id", id.String()))
	}
	return member, nil
}

// storeError logs an unexpected store failure and wraps it for the caller.
func (s *PaymentService) storeError(op string, err error, fields ...zap.Field) error {
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return customError.WrapStoreError(err)
}

// publicMessage is the text that may be shown to the person who made the
// request.
func publicMessage(err error) string {
	var be *customError.BusinessError
	if errors.As(err, &be) && be.MessageEn != "" {
		return be.MessageEn
	}
	return "A system error occurred, please try again later"
}

func containsOverdue(statuses []domain.Status) bool {
	for _, st := range statuses {
		if st == domain.StatusOverdue {
			return true
		}
	}
	return false
}

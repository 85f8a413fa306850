package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/family-ledger/internal/domain"
)

const paymentColumns = `
	id, reference_number, payer_id, beneficiary_id, subscription_id, category,
	COALESCE(payment_method, '') AS payment_method, amount, status,
	COALESCE(notes, '') AS notes,
	COALESCE(hijri_year, 0) AS hijri_year, COALESCE(hijri_month, 0) AS hijri_month,
	COALESCE(hijri_day, 0) AS hijri_day, COALESCE(hijri_month_name, '') AS hijri_month_name,
	COALESCE(hijri_date_string, '') AS hijri_date_string,
	COALESCE(receipt_uploaded, FALSE) AS receipt_uploaded,
	COALESCE(receipt_filename, '') AS receipt_filename,
	COALESCE(receipt_size, 0) AS receipt_size,
	COALESCE(receipt_mimetype, '') AS receipt_mimetype,
	version, processed_at, created_at, updated_at`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, reference_number, payer_id, beneficiary_id, subscription_id, category,
			payment_method, amount, status, notes,
			hijri_year, hijri_month, hijri_day, hijri_month_name, hijri_date_string,
			receipt_uploaded, receipt_filename, receipt_size, receipt_mimetype,
			version, processed_at, created_at, updated_at
		) VALUES (
			:id, :reference_number, :payer_id, :beneficiary_id, :subscription_id, :category,
			NULLIF(:payment_method, ''), :amount, :status, NULLIF(:notes, ''),
			:hijri_year, :hijri_month, :hijri_day, :hijri_month_name, :hijri_date_string,
			:receipt_uploaded, NULLIF(:receipt_filename, ''), :receipt_size, NULLIF(:receipt_mimetype, ''),
			:version, :processed_at, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, payment)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, constraintOf(err))
	}
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	normalizeSubscription(&payment)
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	query, args := buildListQuery(filter)

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, err
	}

	for _, p := range payments {
		normalizeSubscription(p)
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *domain.Payment, expectedVersion int) error {
	query := `
		UPDATE payments
		SET status = $2, payment_method = NULLIF($3, ''), processed_at = $4,
			version = version + 1, updated_at = $5
		WHERE id = $1 AND version = $6
		RETURNING ` + paymentColumns

	var updated domain.Payment
	err := r.db.GetContext(ctx, &updated, query,
		payment.ID,
		payment.Status,
		payment.PaymentMethod,
		payment.ProcessedAt,
		time.Now().UTC(),
		expectedVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}

	normalizeSubscription(&updated)
	*payment = updated
	return nil
}

// buildListQuery turns a filter into a positional SELECT.
func buildListQuery(filter domain.PaymentFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		add("status = ANY($%d)", pq.Array(statuses))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.PayerID != uuid.Nil {
		add("payer_id = $%d", filter.PayerID)
	}
	if filter.BeneficiaryID != uuid.Nil {
		add("beneficiary_id = $%d", filter.BeneficiaryID)
	}
	if filter.HijriYear > 0 {
		add("hijri_year = $%d", filter.HijriYear)
	}
	if filter.HijriMonth > 0 {
		add("hijri_month = $%d", filter.HijriMonth)
	}
	if filter.CreatedFrom != nil {
		add("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		add("created_at < $%d", *filter.CreatedBefore)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(paymentColumns)
	sb.WriteString(" FROM payments")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if filter.SortBy == domain.SortHijri {
		sb.WriteString(" ORDER BY hijri_year DESC, hijri_month DESC, hijri_day DESC, created_at DESC")
	} else {
		sb.WriteString(" ORDER BY created_at DESC")
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// normalizeSubscription maps the legacy all-zero subscription id, written
// when the column was NOT NULL, to a standalone payment.
func normalizeSubscription(p *domain.Payment) {
	if p.SubscriptionID.Valid && p.SubscriptionID.UUID == uuid.Nil {
		p.SubscriptionID = uuid.NullUUID{}
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func constraintOf(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/family-ledger/internal/domain"
)

func TestBuildListQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	payer := uuid.New()

	tests := []struct {
		name     string
		filter   domain.PaymentFilter
		contains []string
		args     int
	}{
		{
			name:     "no filter orders by creation",
			filter:   domain.PaymentFilter{},
			contains: []string{"FROM payments ORDER BY created_at DESC"},
			args:     0,
		},
		{
			name:   "hijri month with hijri ordering",
			filter: domain.PaymentFilter{HijriYear: 1445, HijriMonth: 9, SortBy: domain.SortHijri},
			contains: []string{
				"hijri_year = $1 AND hijri_month = $2",
				"ORDER BY hijri_year DESC, hijri_month DESC, hijri_day DESC",
			},
			args: 2,
		},
		{
			name: "everything",
			filter: domain.PaymentFilter{
				Statuses:    []domain.Status{domain.StatusPending, domain.StatusApproved},
				Category:    domain.CategoryDonation,
				PayerID:     payer,
				CreatedFrom: &from,
				Limit:       10,
				Offset:      20,
			},
			contains: []string{
				"status = ANY($1)",
				"category = $2",
				"payer_id = $3",
				"created_at >= $4",
				"LIMIT $5 OFFSET $6",
			},
			args: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			assert.Len(t, args, tt.args)
		})
	}
}

func TestNormalizeSubscription(t *testing.T) {
	legacy := &domain.Payment{SubscriptionID: uuid.NullUUID{UUID: uuid.Nil, Valid: true}}
	normalizeSubscription(legacy)
	assert.False(t, legacy.SubscriptionID.Valid)

	tied := &domain.Payment{SubscriptionID: uuid.NullUUID{UUID: uuid.New(), Valid: true}}
	normalizeSubscription(tied)
	assert.True(t, tied.SubscriptionID.Valid)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505", Constraint: "payments_reference_number_key"}))
	assert.Equal(t, "payments_reference_number_key", constraintOf(&pq.Error{Code: "23505", Constraint: "payments_reference_number_key"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(sql.ErrNoRows))
	assert.False(t, isUniqueViolation(nil))
}

// The tests below need a disposable Postgres database in TEST_DATABASE_URL.

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "DROP TABLE IF EXISTS payments; DROP TABLE IF EXISTS members;")
	require.NoError(t, EnsureSchema(ctx, db))

	t.Cleanup(func() {
		_, _ = db.Exec("DROP TABLE IF EXISTS payments; DROP TABLE IF EXISTS members;")
		db.Close()
	})
	return db
}

func insertMember(t *testing.T, db *sqlx.DB, name string, balance string, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO members (id, full_name, phone, balance, membership_status) VALUES ($1, $2, $3, $4, $5)`,
		id, name, "0500000000", balance, status,
	)
	require.NoError(t, err)
	return id
}

func newTestPayment(payer uuid.UUID, ref string, hijriYear, hijriMonth, hijriDay int, createdAt time.Time) *domain.Payment {
	return &domain.Payment{
		ID:              uuid.New(),
		ReferenceNumber: ref,
		PayerID:         payer,
		BeneficiaryID:   payer,
		Category:        domain.CategorySubscription,
		Amount:          domain.AmountFromInt(100),
		Status:          domain.StatusPending,
		HijriYear:       hijriYear,
		HijriMonth:      hijriMonth,
		HijriDay:        hijriDay,
		HijriMonthName:  "رمضان",
		HijriDateString: "1/9 رمضان 1445 هـ",
		Version:         1,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payer := insertMember(t, db, "Ahmad", "500", domain.MembershipActive)
	payment := newTestPayment(payer, "PAY-00000001-AAAA", 1445, 9, 1, time.Now().UTC().Truncate(time.Microsecond))
	payment.Notes = "Ramadan subscription"

	require.NoError(t, repo.Create(ctx, payment))

	got, err := repo.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ReferenceNumber, got.ReferenceNumber)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Amount.Decimal))
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 1445, got.HijriYear)
	assert.Equal(t, "Ramadan subscription", got.Notes)
	assert.False(t, got.SubscriptionID.Valid)
	assert.Empty(t, got.PaymentMethod)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPaymentRepository_DuplicateReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payer := insertMember(t, db, "Ahmad", "500", domain.MembershipActive)
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newTestPayment(payer, "PAY-DUP", 1445, 9, 1, now)))

	err := repo.Create(ctx, newTestPayment(payer, "PAY-DUP", 1445, 9, 2, now))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPaymentRepository_UpdateStatusChecksVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payer := insertMember(t, db, "Ahmad", "500", domain.MembershipActive)
	payment := newTestPayment(payer, "PAY-VERSION", 1445, 9, 1, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, payment))

	processedAt := time.Now().UTC()
	payment.Status = domain.StatusPaid
	payment.PaymentMethod = domain.MethodBankTransfer
	payment.ProcessedAt = &processedAt
	require.NoError(t, repo.UpdateStatus(ctx, payment, 1))
	assert.Equal(t, 2, payment.Version)
	assert.Equal(t, domain.MethodBankTransfer, payment.PaymentMethod)

	stale := *payment
	stale.Status = domain.StatusRefunded
	err := repo.UpdateStatus(ctx, &stale, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestPaymentRepository_ListHijriOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payer := insertMember(t, db, "Ahmad", "500", domain.MembershipActive)
	now := time.Now().UTC()

	// created_at order is the reverse of the hijri order
	require.NoError(t, repo.Create(ctx, newTestPayment(payer, "PAY-A", 1444, 2, 10, now)))
	require.NoError(t, repo.Create(ctx, newTestPayment(payer, "PAY-B", 1445, 9, 1, now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestPayment(payer, "PAY-C", 1445, 10, 5, now.Add(-2*time.Hour))))

	result, err := repo.List(ctx, domain.PaymentFilter{SortBy: domain.SortHijri})
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, []string{"PAY-C", "PAY-B", "PAY-A"},
		[]string{result[0].ReferenceNumber, result[1].ReferenceNumber, result[2].ReferenceNumber})

	result, err = repo.List(ctx, domain.PaymentFilter{SortBy: domain.SortGregorian})
	require.NoError(t, err)
	assert.Equal(t, "PAY-A", result[0].ReferenceNumber)

	result, err = repo.List(ctx, domain.PaymentFilter{HijriYear: 1445, HijriMonth: 9})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "PAY-B", result[0].ReferenceNumber)
}

func TestPaymentRepository_ReadsMalformedAmountAsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payer := insertMember(t, db, "Ahmad", "500", domain.MembershipActive)
	payment := newTestPayment(payer, "PAY-NULL", 1445, 9, 1, time.Now().UTC())
	payment.Amount = domain.Amount{}
	require.NoError(t, repo.Create(ctx, payment))

	got, err := repo.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.False(t, got.Amount.Valid)
	assert.True(t, got.Amount.OrZero().IsZero())
}

func TestMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	id := insertMember(t, db, "Fatimah Al-Harbi", "250.75", domain.MembershipActive)
	insertMember(t, db, "Khalid 100%", "10", domain.MembershipInactive)

	member, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Fatimah Al-Harbi", member.FullName)
	assert.True(t, decimal.RequireFromString("250.75").Equal(member.Balance.Decimal))
	assert.True(t, member.IsActive())

	found, err := repo.Search(ctx, "fatimah", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	found, err = repo.Search(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Khalid 100%", found[0].FullName)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

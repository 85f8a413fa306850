package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment is a single row of the association's payment ledger.
//
// The Hijri fields are a snapshot taken when the payment is created. They
// are written once and never recomputed from CreatedAt.
type Payment struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	ReferenceNumber string        `json:"reference_number" db:"reference_number"`
	PayerID         uuid.UUID     `json:"payer_id" db:"payer_id"`
	BeneficiaryID   uuid.UUID     `json:"beneficiary_id" db:"beneficiary_id"`
	SubscriptionID  uuid.NullUUID `json:"subscription_id" db:"subscription_id"`
	Category        Category      `json:"category" db:"category"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty" db:"payment_method"`
	Amount          Amount        `json:"amount" db:"amount"`
	Status          Status        `json:"status" db:"status"`
	Notes           string        `json:"notes,omitempty" db:"notes"`

	HijriYear       int    `json:"hijri_year" db:"hijri_year"`
	HijriMonth      int    `json:"hijri_month" db:"hijri_month"`
	HijriDay        int    `json:"hijri_day" db:"hijri_day"`
	HijriMonthName  string `json:"hijri_month_name" db:"hijri_month_name"`
	HijriDateString string `json:"hijri_date_string" db:"hijri_date_string"`

	ReceiptUploaded bool   `json:"receipt_uploaded" db:"receipt_uploaded"`
	ReceiptFilename string `json:"receipt_filename,omitempty" db:"receipt_filename"`
	ReceiptSize     int64  `json:"receipt_size,omitempty" db:"receipt_size"`
	ReceiptMimetype string `json:"receipt_mimetype,omitempty" db:"receipt_mimetype"`

	Version     int        `json:"version" db:"version"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// OnBehalf reports whether the payer pays for another member.
func (p *Payment) OnBehalf() bool {
	return p.BeneficiaryID != uuid.Nil && p.BeneficiaryID != p.PayerID
}

// HasHijri reports whether the calendar snapshot was captured.
func (p *Payment) HasHijri() bool {
	return p.HijriYear > 0 && p.HijriMonth >= 1 && p.HijriMonth <= 12
}

// Hijri returns the frozen calendar snapshot.
func (p *Payment) Hijri() HijriDate {
	return HijriDate{
		Year:            p.HijriYear,
		Month:           p.HijriMonth,
		Day:             p.HijriDay,
		MonthName:       p.HijriMonthName,
		FormattedString: p.HijriDateString,
	}
}

// SetHijri stores the snapshot. It is a no-op once a snapshot exists.
func (p *Payment) SetHijri(h HijriDate) {
	if p.HasHijri() {
		return
	}
	p.HijriYear = h.Year
	p.HijriMonth = h.Month
	p.HijriDay = h.Day
	p.HijriMonthName = h.MonthName
	p.HijriDateString = h.FormattedString
}

// DTOs for requests and responses

type CreatePaymentRequest struct {
	PayerID        string `json:"payer_id" validate:"required,uuid"`
	BeneficiaryID  string `json:"beneficiary_id" validate:"omitempty,uuid"`
	SubscriptionID string `json:"subscription_id" validate:"omitempty,uuid"`
	Category       string `json:"category" validate:"required"`
	PaymentMethod  string `json:"payment_method"`
	Amount         Amount `json:"amount"`
	Notes          string `json:"notes" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type StatusUpdate struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

type BulkUpdateRequest struct {
	Updates []StatusUpdate `json:"updates" validate:"required,min=1,dive"`
}

// FailedUpdate identifies one rejected item of a bulk update.
type FailedUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

type BulkUpdateResult struct {
	Succeeded []*Payment     `json:"succeeded"`
	Failed    []FailedUpdate `json:"failed"`
}

// SortOrder selects the ordering of payment listings.
type SortOrder string

const (
	SortHijri     SortOrder = "hijri"
	SortGregorian SortOrder = "gregorian"
)

// ParseSortOrder returns SortHijri for "hijri" and SortGregorian otherwise.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortHijri) {
		return SortHijri
	}
	return SortGregorian
}

// PaymentFilter narrows a ledger query. Zero values mean "no filter".
type PaymentFilter struct {
	Statuses      []Status
	Category      Category
	PayerID       uuid.UUID
	BeneficiaryID uuid.UUID
	HijriYear     int
	HijriMonth    int
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	SortBy        SortOrder
	Limit         int
	Offset        int
}

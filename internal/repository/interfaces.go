package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/segyhp/family-ledger/internal/domain"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrVersionConflict is returned when a compare-and-swap update finds
	// the row at a different version than the caller read.
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// PaymentRepository defines the interface for payment data operations.
// Lookups of a missing row return sql.ErrNoRows.
type PaymentRepository interface {
	// Create inserts a new ledger row
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// List returns the payments matching filter, ordered as filter.SortBy asks
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)

	// UpdateStatus writes status, payment method and processed_at when the
	// stored version still equals expectedVersion, then refreshes payment
	UpdateStatus(ctx context.Context, payment *domain.Payment, expectedVersion int) error
}

// MemberRepository is the read side of the member directory
type MemberRepository interface {
	// GetByID retrieves a member by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// Search finds members whose name or phone contains query
	Search(ctx context.Context, query string, limit int) ([]*domain.Member, error)
}

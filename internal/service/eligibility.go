package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/repository"
	customError "github.com/segyhp/family-ledger/pkg/errors"
)

// EligibilityChecker enforces the minimum-balance rule for members who are
// paid for by someone else.
type EligibilityChecker struct {
	members repository.MemberRepository
	minimum decimal.Decimal
}

func NewEligibilityChecker(members repository.MemberRepository, minimum decimal.Decimal) *EligibilityChecker {
	return &EligibilityChecker{members: members, minimum: minimum}
}

// MeetsMinimum reports balance >= minimum. An unreadable balance counts as zero.
func (c *EligibilityChecker) MeetsMinimum(member *domain.Member) bool {
	return member.Balance.OrZero().GreaterThanOrEqual(c.minimum)
}

// HasMinimumBalance looks the member up and applies MeetsMinimum.
func (c *EligibilityChecker) HasMinimumBalance(ctx context.Context, memberID uuid.UUID) (bool, error) {
	member, err := c.lookup(ctx, memberID)
	if err != nil {
		return false, err
	}
	return c.MeetsMinimum(member), nil
}

// Eligibility reports the balance check together with the inputs used.
func (c *EligibilityChecker) Eligibility(ctx context.Context, memberID uuid.UUID) (*domain.EligibilityResponse, error) {
	member, err := c.lookup(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &domain.EligibilityResponse{
		MemberID:          member.ID,
		Balance:           domain.NewAmount(member.Balance.OrZero()),
		MinimumBalance:    domain.NewAmount(c.minimum),
		HasMinimumBalance: c.MeetsMinimum(member),
		Active:            member.IsActive(),
	}, nil
}

func (c *EligibilityChecker) lookup(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	member, err := c.members.GetByID(ctx, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapMemberNotFound(memberID.String())
	}
	if err != nil {
		return nil, customError.WrapStoreError(err)
	}
	return member, nil
}

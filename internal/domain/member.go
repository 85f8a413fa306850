package domain

import (
	"github.com/google/uuid"
)

const (
	MembershipActive    = "active"
	MembershipInactive  = "inactive"
	MembershipSuspended = "suspended"
)

// Member is read from the member directory. This service never writes it.
type Member struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FullName         string    `json:"full_name" db:"full_name"`
	Phone            string    `json:"phone,omitempty" db:"phone"`
	Balance          Amount    `json:"balance" db:"balance"`
	MembershipStatus string    `json:"membership_status" db:"membership_status"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) IsActive() bool {
	return m.MembershipStatus == MembershipActive
}

type EligibilityResponse struct {
	MemberID          uuid.UUID `json:"member_id"`
	Balance           Amount    `json:"balance"`
	MinimumBalance    Amount    `json:"minimum_balance"`
	HasMinimumBalance bool      `json:"has_minimum_balance"`
	Active            bool      `json:"active"`
}

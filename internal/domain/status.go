package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
	// StatusOverdue is derived at query time and never stored.
	StatusOverdue Status = "overdue"
)

// StoredStatuses lists every status that may be persisted.
var StoredStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusPaid,
	StatusRejected,
	StatusCancelled,
	StatusRefunded,
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusPaid, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusPaid, StatusRejected, StatusCancelled},
	StatusPaid:      {StatusRefunded},
	StatusRejected:  nil,
	StatusCancelled: nil,
	StatusRefunded:  nil,
}

// ParseStatus accepts any known status, including the derived overdue.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusPaid, StatusRejected,
		StatusCancelled, StatusRefunded, StatusOverdue:
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Stored reports whether the status can be written to the ledger.
func (s Status) Stored() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is allowed.
// Same-state requests are allowed as no-ops for every stored status.
func (s Status) CanTransitionTo(target Status) bool {
	if !s.Stored() || !target.Stored() {
		return false
	}
	if s == target {
		return true
	}
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the targets reachable from s, excluding s itself.
func (s Status) AllowedTransitions() []Status {
	return append([]Status(nil), transitions[s]...)
}

// Category classifies what a payment is for.
type Category string

const (
	CategorySubscription Category = "subscription"
	CategoryDonation     Category = "donation"
	CategoryDiya         Category = "diya"
	CategoryOther        Category = "other"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategorySubscription, CategoryDonation, CategoryDiya, CategoryOther}

// ParseCategory maps the aliases used by older clients onto the closed set.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subscription":
		return CategorySubscription, nil
	case "donation", "initiative":
		return CategoryDonation, nil
	case "diya", "penalty":
		return CategoryDiya, nil
	case "other":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown payment category %q", s)
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RequiresNotes reports whether the category needs a description.
func (c Category) RequiresNotes() bool {
	return c == CategoryDonation || c == CategoryDiya
}

// PaymentMethod is the channel used to settle a payment.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodOnline       PaymentMethod = "online"
	MethodWallet       PaymentMethod = "wallet"
)

// PaymentMethods lists the supported channels.
var PaymentMethods = []PaymentMethod{MethodCash, MethodBankTransfer, MethodCard, MethodOnline, MethodWallet}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

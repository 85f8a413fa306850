package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrNotPaid             = errors.New("payment is not paid")
	ErrStore               = errors.New("store failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code      string
	Message   string
	MessageAr string
	MessageEn string
	Fields    map[string]string
	Err       error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:      code,
		Message:   message,
		MessageEn: message,
		Err:       err,
	}
}

// Error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeNotPaid             = "NOT_PAID"
	ErrCodeStoreError          = "STORE_ERROR"
)

// WrapValidation builds a field-level validation error. The message lists
// the offending fields in a stable order.
func WrapValidation(fields map[string]string) *BusinessError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, fields[name]))
	}

	return &BusinessError{
		Code:      ErrCodeValidation,
		Message:   "invalid input: " + strings.Join(parts, "; "),
		MessageAr: "البيانات المدخلة غير صحيحة",
		MessageEn: "The submitted data is invalid",
		Fields:    fields,
		Err:       ErrValidation,
	}
}

// WrapInvalidField is a shortcut for a single-field validation error.
func WrapInvalidField(field, reason string) *BusinessError {
	return WrapValidation(map[string]string{field: reason})
}

// WrapInvalidTransition names the statuses reachable from `from`. An empty
// allowed list means the payment is final.
func WrapInvalidTransition(from, to string, allowed ...string) *BusinessError {
	next := "none, the status is final"
	if len(allowed) > 0 {
		next = strings.Join(allowed, ", ")
	}
	return &BusinessError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("cannot move payment from %s to %s (allowed: %s)", from, to, next),
		MessageAr: "لا يمكن تغيير حالة الدفعة إلى الحالة المطلوبة",
		MessageEn: fmt.Sprintf("Payment status cannot change from %s to %s (allowed: %s)", from, to, next),
		Err:       ErrInvalidTransition,
	}
}

func WrapInsufficientBalance(memberID string) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeInsufficientBalance,
		Message:   fmt.Sprintf("member %s is below the minimum balance requirement", memberID),
		MessageAr: "رصيد العضو المستفيد أقل من الحد الأدنى المطلوب",
		MessageEn: "The beneficiary's balance is below the minimum requirement",
		Err:       ErrInsufficientBalance,
	}
}

func WrapPaymentNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("payment %s not found", id),
		MessageAr: "الدفعة غير موجودة",
		MessageEn: "Payment not found",
		Err:       ErrNotFound,
	}
}

func WrapMemberNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("member %s not found", id),
		MessageAr: "العضو غير موجود",
		MessageEn: "Member not found",
		Err:       ErrNotFound,
	}
}

func WrapConflict(reason string) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeConflict,
		Message:   reason,
		MessageAr: "تعارض في البيانات، يرجى المحاولة مرة أخرى",
		MessageEn: "The record changed or already exists, please retry",
		Err:       ErrConflict,
	}
}

func WrapNotPaid(reference, status string) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeNotPaid,
		Message:   fmt.Sprintf("payment %s has status %s, receipts require paid", reference, status),
		MessageAr: "لا يمكن إصدار إيصال لدفعة غير مدفوعة",
		MessageEn: "A receipt can only be issued for a paid payment",
		Err:       ErrNotPaid,
	}
}

// WrapStoreError keeps the store failure as the cause; callers show only
// the generic bilingual message.
func WrapStoreError(err error) *BusinessError {
	return &BusinessError{
		Code:      ErrCodeStoreError,
		Message:   "store operation failed",
		MessageAr: "حدث خطأ في النظام، يرجى المحاولة لاحقاً",
		MessageEn: "A system error occurred, please try again later",
		Err:       fmt.Errorf("%w: %w", ErrStore, err),
	}
}

// Code returns the business code carried by err, or ErrCodeStoreError for
// anything that is not a BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeStoreError
}

// IsStoreError reports whether err is an unexpected system failure.
func IsStoreError(err error) bool {
	return err != nil && Code(err) == ErrCodeStoreError
}

// Is, As and New mirror the standard library so callers only import one
// errors package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }

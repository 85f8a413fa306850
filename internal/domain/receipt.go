package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReceiptFormat string

const (
	ReceiptJSON ReceiptFormat = "json"
	ReceiptHTML ReceiptFormat = "html"
	ReceiptPDF  ReceiptFormat = "pdf"
)

func ParseReceiptFormat(s string) (ReceiptFormat, error) {
	switch f := ReceiptFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReceiptJSON, ReceiptHTML, ReceiptPDF:
		return f, nil
	case "":
		return ReceiptJSON, nil
	}
	return "", fmt.Errorf("unsupported receipt format %q", s)
}

type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ParseLanguage falls back to Arabic for anything other than "en".
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LanguageEnglish)) {
		return LanguageEnglish
	}
	return LanguageArabic
}

type ReceiptOptions struct {
	Format   ReceiptFormat
	Language Language
}

// Organization is the static letterhead printed on receipts.
type Organization struct {
	NameAr  string `json:"name_ar"`
	NameEn  string `json:"name_en"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

type ReceiptParty struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name,omitempty"`
}

type AmountInWords struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

type ReceiptPayment struct {
	ReferenceNumber string        `json:"reference_number"`
	Amount          Amount        `json:"amount"`
	AmountFormatted string        `json:"amount_formatted"`
	AmountInWords   AmountInWords `json:"amount_in_words"`
	Category        Category      `json:"category"`
	CategoryLabel   string        `json:"category_label"`
	Method          PaymentMethod `json:"method"`
	MethodLabel     string        `json:"method_label"`
	Status          Status        `json:"status"`
	StatusLabel     string        `json:"status_label"`
	HijriDate       string        `json:"hijri_date"`
	GregorianDate   string        `json:"gregorian_date"`
	Notes           string        `json:"notes,omitempty"`
}

// ReceiptDocument is derived only from a paid payment, the payer record
// and the letterhead, so repeated generation yields the same document.
type ReceiptDocument struct {
	ReceiptNumber string         `json:"receipt_number"`
	Language      Language       `json:"language"`
	Direction     string         `json:"direction"`
	Title         string         `json:"title"`
	Organization  Organization   `json:"organization"`
	Payer         ReceiptParty   `json:"payer"`
	Beneficiary   *ReceiptParty  `json:"beneficiary,omitempty"`
	Payment       ReceiptPayment `json:"payment"`
	SettledAt     time.Time      `json:"settled_at"`
}

// RenderedReceipt is what the receipt service hands back. Content is empty
// for the json format.
type RenderedReceipt struct {
	Document    *ReceiptDocument
	Format      ReceiptFormat
	ContentType string
	Filename    string
	Content     []byte
}

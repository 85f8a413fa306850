package receipt

import (
	"fmt"
	"time"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
)

// Builder assembles receipt documents from a payment, its payer and the
// organization letterhead. It performs no I/O.
type Builder struct {
	org      domain.Organization
	calendar *hijri.Manager
}

func NewBuilder(org domain.Organization, calendar *hijri.Manager) *Builder {
	return &Builder{org: org, calendar: calendar}
}

// Build returns the receipt for p. payer may be nil when the member record
// is gone; the receipt then carries the payer id only.
func (b *Builder) Build(p *domain.Payment, payer *domain.Member, lang domain.Language) *domain.ReceiptDocument {
	settledAt := p.UpdatedAt
	if p.ProcessedAt != nil {
		settledAt = *p.ProcessedAt
	}

	amount := p.Amount.OrZero()
	doc := &domain.ReceiptDocument{
		ReceiptNumber: "RCT-" + p.ReferenceNumber,
		Language:      lang,
		Direction:     Direction(lang),
		Title:         titleLabel.in(lang),
		Organization:  b.org,
		Payer:         domain.ReceiptParty{ID: p.PayerID},
		Payment: domain.ReceiptPayment{
			ReferenceNumber: p.ReferenceNumber,
			Amount:          domain.NewAmount(amount),
			AmountFormatted: FormatAmount(amount, lang),
			AmountInWords:   SpellAmount(amount),
			Category:        p.Category,
			CategoryLabel:   CategoryLabel(p.Category, lang),
			Method:          p.PaymentMethod,
			MethodLabel:     MethodLabel(p.PaymentMethod, lang),
			Status:          p.Status,
			StatusLabel:     StatusLabel(p.Status, lang),
			HijriDate:       b.hijriDate(p, lang),
			GregorianDate:   b.gregorianDate(settledAt, lang),
			Notes:           p.Notes,
		},
		SettledAt: settledAt.UTC(),
	}

	if payer != nil {
		doc.Payer.FullName = payer.FullName
	}
	if p.OnBehalf() {
		doc.Beneficiary = &domain.ReceiptParty{ID: p.BeneficiaryID}
	}

	return doc
}

func (b *Builder) hijriDate(p *domain.Payment, lang domain.Language) string {
	h := b.calendar.SnapshotOf(p)
	if lang == domain.LanguageEnglish {
		props, _ := hijri.MonthProperties(h.Month)
		return fmt.Sprintf("%d %s %d AH", h.Day, props.NameEn, h.Year)
	}
	if h.FormattedString == "" {
		h = hijri.NewDate(h.Year, h.Month, h.Day)
	}
	return hijri.FormatHijriDisplay(h.FormattedString)
}

func (b *Builder) gregorianDate(t time.Time, lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return t.In(b.calendar.Location()).Format("02 Jan 2006")
	}
	return b.calendar.FormatGregorian(t)
}

// Filename is the download name of a rendered receipt.
func Filename(doc *domain.ReceiptDocument, format domain.ReceiptFormat) string {
	return fmt.Sprintf("receipt-%s.%s", doc.Payment.ReferenceNumber, format)
}

package receipt

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/segyhp/family-ledger/internal/domain"
)

func tagOf(lang domain.Language) language.Tag {
	if lang == domain.LanguageEnglish {
		return language.English
	}
	return language.Arabic
}

// FormatAmount renders an amount with the locale's digit grouping and the
// currency label, e.g. "1,250.00 SAR".
func FormatAmount(amount decimal.Decimal, lang domain.Language) string {
	p := message.NewPrinter(tagOf(lang))
	return p.Sprintf("%.2f", amount.Round(2).InexactFloat64()) + " " + currencyLabel.in(lang)
}

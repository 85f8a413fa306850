// Package receipt turns a settled payment into a bilingual receipt and
// renders it as HTML or PDF.
package receipt

import "github.com/segyhp/family-ledger/internal/domain"

type label struct {
	ar string
	en string
}

func (l label) in(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return l.en
	}
	return l.ar
}

var statusLabels = map[domain.Status]label{
	domain.StatusPending:   {"قيد الانتظار", "Pending"},
	domain.StatusApproved:  {"معتمد", "Approved"},
	domain.StatusPaid:      {"مدفوع", "Paid"},
	domain.StatusRejected:  {"مرفوض", "Rejected"},
	domain.StatusCancelled: {"ملغي", "Cancelled"},
	domain.StatusRefunded:  {"مسترد", "Refunded"},
	domain.StatusOverdue:   {"متأخر", "Overdue"},
}

var categoryLabels = map[domain.Category]label{
	domain.CategorySubscription: {"اشتراك", "Subscription"},
	domain.CategoryDonation:     {"تبرع", "Donation"},
	domain.CategoryDiya:         {"دية", "Diya"},
	domain.CategoryOther:        {"أخرى", "Other"},
}

var methodLabels = map[domain.PaymentMethod]label{
	domain.MethodCash:         {"نقداً", "Cash"},
	domain.MethodBankTransfer: {"تحويل بنكي", "Bank transfer"},
	domain.MethodCard:         {"بطاقة", "Card"},
	domain.MethodOnline:       {"دفع إلكتروني", "Online"},
	domain.MethodWallet:       {"محفظة إلكترونية", "Wallet"},
}

var (
	titleLabel       = label{"إيصال دفع", "Payment Receipt"}
	receiptNoLabel   = label{"رقم الإيصال", "Receipt No."}
	referenceLabel   = label{"الرقم المرجعي", "Reference"}
	payerLabel       = label{"الدافع", "Payer"}
	beneficiaryLabel = label{"المستفيد", "Beneficiary"}
	amountLabel      = label{"المبلغ", "Amount"}
	inWordsLabel     = label{"المبلغ كتابة", "Amount in words"}
	categoryLabel    = label{"نوع الدفعة", "Category"}
	methodLabel      = label{"طريقة الدفع", "Payment method"}
	statusLabel      = label{"الحالة", "Status"}
	hijriDateLabel   = label{"التاريخ الهجري", "Hijri date"}
	gregDateLabel    = label{"التاريخ الميلادي", "Gregorian date"}
	notesLabel       = label{"ملاحظات", "Notes"}
	currencyLabel    = label{"ر.س", "SAR"}
)

// StatusLabel returns the display name of a payment status.
func StatusLabel(s domain.Status, lang domain.Language) string {
	if l, ok := statusLabels[s]; ok {
		return l.in(lang)
	}
	return string(s)
}

// CategoryLabel returns the display name of a category. Unknown values are
// shown as "other".
func CategoryLabel(c domain.Category, lang domain.Language) string {
	if l, ok := categoryLabels[c]; ok {
		return l.in(lang)
	}
	return categoryLabels[domain.CategoryOther].in(lang)
}

func MethodLabel(m domain.PaymentMethod, lang domain.Language) string {
	if l, ok := methodLabels[m]; ok {
		return l.in(lang)
	}
	return string(m)
}

// Direction is the text direction of a receipt language.
func Direction(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return "ltr"
	}
	return "rtl"
}

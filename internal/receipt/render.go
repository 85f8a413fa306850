package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/segyhp/family-ledger/internal/domain"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

// Raw HTML in the markdown is dropped (WithUnsafe is not set), so member
// names and notes cannot inject markup.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

var page = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Number}}</title>
<style>
body { font-family: "Noto Naskh Arabic", "Segoe UI", sans-serif; max-width: 720px; margin: 2rem auto; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .4rem .6rem; text-align: start; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Renderer produces the HTML and PDF forms of a receipt.
type Renderer struct {
	fontPath string
}

// NewRenderer returns a renderer. fontPath is an optional UTF-8 TrueType
// font; without it PDF receipts can only be produced in English.
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// SupportsArabicPDF reports whether a font able to draw Arabic is configured.
func (r *Renderer) SupportsArabicPDF() bool {
	return r.fontPath != ""
}

type row struct {
	label string
	value string
}

func rows(doc *domain.ReceiptDocument) []row {
	lang := doc.Language
	words := doc.Payment.AmountInWords.Ar
	if lang == domain.LanguageEnglish {
		words = doc.Payment.AmountInWords.En
	}
	payer := doc.Payer.FullName
	if payer == "" {
		payer = doc.Payer.ID.String()
	}

	out := []row{
		{receiptNoLabel.in(lang), doc.ReceiptNumber},
		{referenceLabel.in(lang), doc.Payment.ReferenceNumber},
		{payerLabel.in(lang), payer},
	}
	if doc.Beneficiary != nil {
		beneficiary := doc.Beneficiary.FullName
		if beneficiary == "" {
			beneficiary = doc.Beneficiary.ID.String()
		}
		out = append(out, row{beneficiaryLabel.in(lang), beneficiary})
	}
	out = append(out,
		row{amountLabel.in(lang), doc.Payment.AmountFormatted},
		row{inWordsLabel.in(lang), words},
		row{categoryLabel.in(lang), doc.Payment.CategoryLabel},
		row{methodLabel.in(lang), doc.Payment.MethodLabel},
		row{statusLabel.in(lang), doc.Payment.StatusLabel},
		row{hijriDateLabel.in(lang), doc.Payment.HijriDate},
		row{gregDateLabel.in(lang), doc.Payment.GregorianDate},
	)
	if doc.Payment.Notes != "" {
		out = append(out, row{notesLabel.in(lang), doc.Payment.Notes})
	}
	return out
}

func orgName(doc *domain.ReceiptDocument) string {
	if doc.Language == domain.LanguageEnglish && doc.Organization.NameEn != "" {
		return doc.Organization.NameEn
	}
	if doc.Organization.NameAr != "" {
		return doc.Organization.NameAr
	}
	return doc.Organization.NameEn
}

func contactLine(org domain.Organization) string {
	var parts []string
	for _, s := range []string{org.Address, org.Phone, org.Email, org.Website} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `|`, `\|`, `#`, `\#`, "\n", " ", "\r", "",
)

// HTML renders the receipt as a standalone page.
func (r *Renderer) HTML(doc *domain.ReceiptDocument) ([]byte, error) {
	var src strings.Builder
	fmt.Fprintf(&src, "# %s\n\n", mdEscaper.Replace(orgName(doc)))
	if line := contactLine(doc.Organization); line != "" {
		fmt.Fprintf(&src, "%s\n\n", mdEscaper.Replace(line))
	}
	fmt.Fprintf(&src, "## %s\n\n", mdEscaper.Replace(doc.Title))

	// the receipt number row doubles as the table header
	for i, rw := range rows(doc) {
		fmt.Fprintf(&src, "| %s | %s |\n", mdEscaper.Replace(rw.label), mdEscaper.Replace(rw.value))
		if i == 0 {
			src.WriteString("|---|---|\n")
		}
	}

	var body bytes.Buffer
	if err := md.Convert([]byte(src.String()), &body); err != nil {
		return nil, fmt.Errorf("render receipt markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, map[string]any{
		"Lang":   string(doc.Language),
		"Dir":    doc.Direction,
		"Title":  doc.Title,
		"Number": doc.ReceiptNumber,
		"Body":   template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("render receipt page: %w", err)
	}
	return out.Bytes(), nil
}

// PDF renders the receipt on an A5 page. The document dates are pinned to
// the settlement time so identical receipts produce identical files.
func (r *Renderer) PDF(doc *domain.ReceiptDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetCreationDate(doc.SettledAt)
	pdf.SetModificationDate(doc.SettledAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title+" "+doc.ReceiptNumber, true)
	pdf.SetMargins(12, 12, 12)

	family, titleStyle := "Helvetica", "B"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font("receipt", "", r.fontPath)
		family, titleStyle = "receipt", ""
		tr = func(s string) string { return s }
	}

	align := "L"
	if doc.Direction == "rtl" {
		align = "R"
	}

	pdf.AddPage()
	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	content := width - left - right

	pdf.SetFont(family, titleStyle, 15)
	pdf.CellFormat(content, 9, tr(orgName(doc)), "", 1, "C", false, 0, "")
	if line := contactLine(doc.Organization); line != "" {
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(content, 5, tr(strings.ReplaceAll(line, "·", "-")), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
	pdf.SetFont(family, titleStyle, 12)
	pdf.CellFormat(content, 8, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 9)
	labelWidth := content * 0.35
	for _, rw := range rows(doc) {
		if align == "R" {
			pdf.CellFormat(content-labelWidth, 7, tr(rw.value), "1", 0, align, false, 0, "")
			pdf.CellFormat(labelWidth, 7, tr(rw.label), "1", 1, align, false, 0, "")
			continue
		}
		pdf.CellFormat(labelWidth, 7, tr(rw.label), "1", 0, align, false, 0, "")
		pdf.CellFormat(content-labelWidth, 7, tr(rw.value), "1", 1, align, false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write receipt pdf: %w", err)
	}
	return out.Bytes(), nil
}

package extraction

import (
	"regexp"
	"strings"
	"time"
)

// UnknownVendor is the fallback vendor name when no pattern matches. Losing
// a bill because the payee could not be read is worse than creating one a
// human has to rename.
const UnknownVendor = "Unknown vendor"

// vendorPatterns are tried in order; the first capture wins. Spanish forms
// first, matching the deployment's dominant locale.
var vendorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\ba\s+favor\s+de\s+([\p{Lu}][\p{L}'.-]*(?:\s+[\p{Lu}][\p{L}'.-]*)*)`),
	regexp.MustCompile(`\ba\s+([\p{Lu}][\p{L}'.-]*(?:\s+[\p{Lu}][\p{L}'.-]*)*)`),
	regexp.MustCompile(`(?i)\b(?:paid|payment)\s+to\s+([\p{Lu}][\p{L}'.-]*(?:\s+[\p{Lu}][\p{L}'.-]*)*)`),
	regexp.MustCompile(`(?i)\bpara\s+([\p{Lu}][\p{L}'.-]*(?:\s+[\p{Lu}][\p{L}'.-]*)*)`),
}

var paymentContextRe = regexp.MustCompile(`(?i)\b(pago|pagu[eé]|pagar|pagado|paid|payment|factura|recibo|deposit[oé]|transferencia)\b`)

// billCategories are tried in order so a line naming two categories always
// lands on the same one.
var billCategories = []struct {
	name string
	re   *regexp.Regexp
}{
	{"rent", regexp.MustCompile(`(?i)\b(renta|alquiler|rent)\b`)},
	{"utilities", regexp.MustCompile(`(?i)\b(luz|agua|internet|electricidad|electricity|water|gas)\b`)},
	{"food", regexp.MustCompile(`(?i)\b(comida|super|supermercado|groceries|restaurante?)\b`)},
	{"transport", regexp.MustCompile(`(?i)\b(gasolina|taxi|uber|bus|transporte|fuel)\b`)},
}

// BillParser turns payment-shaped message content into bill drafts. A
// bulleted message produces one draft per line item that carries an amount.
type BillParser struct {
	settings Settings
}

func NewBillParser(s Settings) *BillParser {
	return &BillParser{settings: s}
}

func (p *BillParser) Parse(content string, ref time.Time) []Draft {
	items := splitListItems(content)
	var drafts []Draft
	for _, item := range items {
		d, ok := p.parseCandidate(item.Text)
		if !ok {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

func (p *BillParser) parseCandidate(text string) (Draft, bool) {
	cents, currency, ok := FindAmount(text, p.settings)
	if !ok {
		return Draft{}, false
	}

	confidence := 0.9
	vendor := extractVendor(text)
	if vendor == "" {
		vendor = UnknownVendor
		confidence = 0.35
	}

	category := ""
	for _, c := range billCategories {
		if c.re.MatchString(text) {
			category = c.name
			break
		}
	}

	return Draft{
		Bill: &BillDraft{
			Vendor:      vendor,
			AmountCents: cents,
			Currency:    currency,
			Category:    category,
			Description: strings.TrimSpace(text),
		},
		Confidence: confidence,
		Span:       text,
	}, true
}

func extractVendor(text string) string {
	for i, re := range vendorPatterns {
		// The bare "a <Name>" form is only trusted inside payment wording;
		// on its own it matches prose far too often.
		if i == 1 && !paymentContextRe.MatchString(text) {
			continue
		}
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

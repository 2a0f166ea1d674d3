package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"whatsflow/internal/config"
)

var (
	numeralRe    = regexp.MustCompile(`(?:[A-Z]{3}\s*|\$\s*|C\$\s*)?\d[\d.,]*\d|\d`)
	currencyRe   = regexp.MustCompile(`(?i)\b(USD|MXN|EUR|NIO|COP|GTQ)\b`)
	dollarsRe    = regexp.MustCompile(`(?i)\b(d[oó]lares|dollars?|bucks)\b`)
	codePrefixRe = regexp.MustCompile(`^[A-Z]{3}\s*`)
)

// groupingPattern reports whether s is digits grouped in threes by sep,
// e.g. "5,000" or "1.234.567". A string in this shape is always an integer
// amount under the locale that uses sep for grouping; truncating it at the
// first separator is the classic failure this rule exists to prevent.
func groupingPattern(s string, sep byte) bool {
	groups := strings.Split(s, string(sep))
	if len(groups) < 2 {
		return false
	}
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	for _, g := range groups {
		for i := 0; i < len(g); i++ {
			if g[i] < '0' || g[i] > '9' {
				return false
			}
		}
	}
	return true
}

// ParseAmountCents reads a numeral string under the configured decimal style
// and returns the amount in minor units. Fractions beyond two digits are
// truncated.
func ParseAmountCents(raw string, style config.DecimalStyle) (int64, error) {
	s := strings.TrimSpace(raw)
	// A prefix currency code ("USD 300") rides along in the numeral match
	// and must come off before digit parsing.
	s = codePrefixRe.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "$ \t")
	s = strings.TrimPrefix(s, "C$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeral")
	}

	decimalSep, groupSep := byte('.'), byte(',')
	if style == config.DecimalStyleComma {
		decimalSep, groupSep = ',', '.'
	}

	hasDecimal := strings.IndexByte(s, decimalSep) >= 0
	hasGroup := strings.IndexByte(s, groupSep) >= 0

	var intPart, fracPart string
	switch {
	case hasDecimal && hasGroup:
		// Mixed style ("1.234,56" / "1,234.56"): locale decides which
		// separator is which, no per-string guessing.
		s = strings.ReplaceAll(s, string(groupSep), "")
		parts := strings.SplitN(s, string(decimalSep), 2)
		intPart, fracPart = parts[0], parts[1]
	case hasGroup:
		if !groupingPattern(s, groupSep) {
			return 0, fmt.Errorf("malformed grouped numeral %q", raw)
		}
		intPart = strings.ReplaceAll(s, string(groupSep), "")
	case hasDecimal:
		if strings.Count(s, string(decimalSep)) > 1 {
			// Repeated separator can only be grouping, whatever the locale
			// says ("1,000,000" under comma-decimal).
			if !groupingPattern(s, decimalSep) {
				return 0, fmt.Errorf("malformed numeral %q", raw)
			}
			intPart = strings.ReplaceAll(s, string(decimalSep), "")
		} else {
			parts := strings.SplitN(s, string(decimalSep), 2)
			intPart, fracPart = parts[0], parts[1]
		}
	default:
		intPart = s
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}

	cents := units * 100
	if fracPart != "" {
		if len(fracPart) > 2 {
			fracPart = fracPart[:2]
		}
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse fraction of %q: %w", raw, err)
		}
		cents += frac
	}
	return cents, nil
}

// FindAmount locates the first numeral in text and parses it. The returned
// currency is the explicit one if the text names it, otherwise the locale
// default.
func FindAmount(text string, s Settings) (cents int64, currency string, ok bool) {
	for _, loc := range numeralRe.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		// Skip numerals glued to a colon on either side: those are times.
		if loc[0] > 0 && text[loc[0]-1] == ':' {
			continue
		}
		if loc[1] < len(text) && text[loc[1]] == ':' {
			continue
		}
		c, err := ParseAmountCents(raw, s.DecimalStyle)
		if err != nil {
			continue
		}
		currency = s.DefaultCurrency
		if m := currencyRe.FindString(text); m != "" {
			currency = strings.ToUpper(m)
		} else if dollarsRe.MatchString(text) {
			currency = "USD"
		} else if strings.Contains(text, "C$") {
			currency = "NIO"
		}
		return c, currency, true
	}
	return 0, "", false
}

// FormatCents renders minor units as a fixed two-decimal string ("5000.00"),
// suitable for Decimal128 parsing at the storage layer.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

package extraction

import (
	"testing"
	"time"

	"whatsflow/internal/config"
)

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		style   config.DecimalStyle
		want    int64
		wantErr bool
	}{
		{
			name:  "Comma thousands groups",
			input: "5,000",
			style: config.DecimalStylePeriod,
			want:  500000,
		},
		{
			name:  "Multiple comma groups",
			input: "1,234,567",
			style: config.DecimalStylePeriod,
			want:  123456700,
		},
		{
			name:  "Plain integer",
			input: "250",
			style: config.DecimalStylePeriod,
			want:  25000,
		},
		{
			name:  "Currency code prefix",
			input: "USD 300",
			style: config.DecimalStylePeriod,
			want:  30000,
		},
		{
			name:  "Dollar sign with group and decimals",
			input: "$1,500.00",
			style: config.DecimalStylePeriod,
			want:  150000,
		},
		{
			name:  "Mixed style under comma-decimal locale",
			input: "1.234,56",
			style: config.DecimalStyleComma,
			want:  123456,
		},
		{
			name:  "Mixed style under period-decimal locale",
			input: "1,234.56",
			style: config.DecimalStylePeriod,
			want:  123456,
		},
		{
			name:  "Period groups under comma-decimal locale",
			input: "5.000",
			style: config.DecimalStyleComma,
			want:  500000,
		},
		{
			name:  "Decimal under comma-decimal locale",
			input: "12,50",
			style: config.DecimalStyleComma,
			want:  1250,
		},
		{
			name:  "Repeated locale-decimal separator is grouping",
			input: "1,000,000",
			style: config.DecimalStyleComma,
			want:  100000000,
		},
		{
			name:    "Malformed grouping",
			input:   "1,00",
			style:   config.DecimalStylePeriod,
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "",
			style:   config.DecimalStylePeriod,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountCents(tt.input, tt.style)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmountCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAmountCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindAmount(t *testing.T) {
	settings := Settings{
		DecimalStyle:    config.DecimalStylePeriod,
		DefaultCurrency: "MXN",
		Location:        time.UTC,
	}

	tests := []struct {
		name         string
		text         string
		wantCents    int64
		wantCurrency string
		wantOK       bool
	}{
		{
			name:         "Payment with thousands group",
			text:         "Pago 5,000 a Carlos",
			wantCents:    500000,
			wantCurrency: "MXN",
			wantOK:       true,
		},
		{
			name:         "Explicit currency code",
			text:         "Pago 300 USD de internet",
			wantCents:    30000,
			wantCurrency: "USD",
			wantOK:       true,
		},
		{
			name:         "Prefix currency code",
			text:         "Pago USD 300 de internet",
			wantCents:    30000,
			wantCurrency: "USD",
			wantOK:       true,
		},
		{
			name:         "Córdoba sign prefix",
			text:         "Pagué C$ 500 de luz",
			wantCents:    50000,
			wantCurrency: "NIO",
			wantOK:       true,
		},
		{
			name:         "Dollars word",
			text:         "paid 40 dollars for gas",
			wantCents:    4000,
			wantCurrency: "USD",
			wantOK:       true,
		},
		{
			name:   "Clock time is not an amount",
			text:   "reunión a las 6:30",
			wantOK: false,
		},
		{
			name:   "No numeral",
			text:   "sin monto aquí",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, currency, ok := FindAmount(tt.text, settings)
			if ok != tt.wantOK {
				t.Fatalf("FindAmount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cents != tt.wantCents {
				t.Errorf("FindAmount(%q) cents = %d, want %d", tt.text, cents, tt.wantCents)
			}
			if currency != tt.wantCurrency {
				t.Errorf("FindAmount(%q) currency = %q, want %q", tt.text, currency, tt.wantCurrency)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{500000, "5000.00"},
		{1250, "12.50"},
		{5, "0.05"},
		{-150, "-1.50"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

package format

import "testing"

func TestCurrencyWithSymbol(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		amount   float64
		expected string
	}{
		{"Small amount", "$", 12.5, "$12.50"},
		{"Thousands separator", "$", 1234.56, "$1,234.56"},
		{"Millions", "€", 1234567.891, "€1,234,567.89"},
		{"Negative", "$", -1000, "-$1,000.00"},
		{"Empty symbol", "", 200, "200.00"},
		{"Zero", "₹", 0, "₹0.00"},
		{"Rounds up into a new group", "₹", 999999.999, "₹1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrencyWithSymbol(tt.symbol, tt.amount); got != tt.expected {
				t.Errorf("CurrencyWithSymbol(%q, %v) = %q, expected %q", tt.symbol, tt.amount, got, tt.expected)
			}
		})
	}
}


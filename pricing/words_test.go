package pricing

import "testing"

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "Zero Rupees Only"},
		{"single_digit", 5, "Five Rupees Only"},
		{"teens", 15, "Fifteen Rupees Only"},
		{"tens_with_ones", 42, "Forty Two Rupees Only"},
		{"hundreds", 500, "Five Hundred Rupees Only"},
		{"thousands", 5000, "Five Thousand Rupees Only"},
		{"with_paise", 1500.50, "One Thousand Five Hundred Rupees and Fifty Paise Only"},
		{"paise_only", 0.75, "Seventy Five Paise Only"},
		{"lakh", 100000, "One Lakh Rupees Only"},
		{"lakhs_mixed", 913183, "Nine Lakh Thirteen Thousand One Hundred Eighty Three Rupees Only"},
		{"crore", 10000000, "One Crore Rupees Only"},
		{"crores_mixed", 12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees Only"},
		{"negative", -250, "Minus Two Hundred Fifty Rupees Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountInWords(tt.amount); got != tt.want {
				t.Errorf("AmountInWords(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestAmountInWordsRoundsPaise(t *testing.T) {
	// 99.999 rounds up to a whole rupee, not "and One Hundred Paise".
	if got := AmountInWords(99.999); got != "One Hundred Rupees Only" {
		t.Errorf("AmountInWords(99.999) = %q, want %q", got, "One Hundred Rupees Only")
	}
}

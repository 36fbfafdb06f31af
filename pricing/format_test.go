package pricing

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0.00"},
		{"hundreds", 999, "999.00"},
		{"thousands", 1500.5, "1,500.50"},
		{"five_digits", 25370, "25,370.00"},
		{"lakh", 123456.78, "1,23,456.78"},
		{"crore", 12345678.9, "1,23,45,678.90"},
		{"large", 987654321, "98,76,54,321.00"},
		{"negative", -25370, "-25,370.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatINR(tt.amount); got != tt.want {
				t.Errorf("FormatINR(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

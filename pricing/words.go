package pricing

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a currency amount as English words in the Indian
// numbering system (crore/lakh/thousand), rupees and paise handled
// separately. Example: 1500.50 → "One Thousand Five Hundred Rupees and
// Fifty Paise Only". Zero maps to "Zero Rupees Only". Negative amounts
// get a "Minus " prefix.
func AmountInWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountInWords(-amount)
	}

	paise := int64(math.Round(amount * 100))
	rupees := paise / 100
	paise %= 100

	if rupees == 0 && paise == 0 {
		return "Zero Rupees Only"
	}

	var b strings.Builder
	if rupees > 0 {
		b.WriteString(indianWords(rupees))
		b.WriteString(" Rupees")
	}
	if paise > 0 {
		if rupees > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(under100(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// indianWords decomposes n by crore (10^7), lakh (10^5), thousand and
// hundred before the irregular 1-99 range.
func indianWords(n int64) string {
	var parts []string

	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000)+" Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, under100(n/100000)+" Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, under100(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, under100(n))
	}
	return strings.Join(parts, " ")
}

func under100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	s := tens[n/10]
	if n%10 != 0 {
		s += " " + ones[n%10]
	}
	return s
}

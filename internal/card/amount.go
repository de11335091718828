package card

import (
	"strconv"
	"strings"
)

// CurrencySymbol prefixes amounts rendered onto a token.
const CurrencySymbol = "₹"

// FormatAmount renders a backend amount the way it is written on a token.
func FormatAmount(v float64) string {
	return CurrencySymbol + strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAmount reads an amount written by FormatAmount or typed by hand,
// e.g. "₹1,00,000 (1 Crore)". Unreadable input yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, CurrencySymbol, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

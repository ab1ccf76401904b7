package service

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Monetary value patterns for Brazilian receipts: thousands separator ".",
// decimal separator ",". Keyword-anchored pattern catches lines such as
// "Total: R$ 1.234,56".
var moneyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)R\$\s*(\d{1,3}(?:\.\d{3})*(?:,\d{2}))`),
	regexp.MustCompile(`(?i)R\$\s*(\d+,\d{2})`),
	regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3}(?:\.\d{3})*,\d{2})(?:\s|$)`),
	regexp.MustCompile(`(?i)(?:total|valor|subtotal|importo)[\s:]+R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
}

var brlSeparators = map[byte]byte{'.': 0, ',': '.'}

// normalizeBRL converts "1.234,56" into "1234.56".
func normalizeBRL(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if repl, ok := brlSeparators[c]; ok {
			if repl != 0 {
				out = append(out, repl)
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// ExtractMonetaryValues returns the distinct monetary value candidates
// found in the recognized text, in first-seen pattern order. The patterns
// overlap, so repeated matches of the same value are collapsed.
func ExtractMonetaryValues(text string) []decimal.Decimal {
	var values []decimal.Decimal
	seen := make(map[string]bool)
	for _, pattern := range moneyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			value, err := decimal.NewFromString(normalizeBRL(match[1]))
			if err != nil {
				continue
			}
			key := value.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			values = append(values, value)
		}
	}
	return values
}

// LargestMonetaryValue returns the maximum candidate found in the text.
// The total is usually the largest number on a receipt; this is a
// heuristic with no guarantee of correctness.
func LargestMonetaryValue(text string) (decimal.Decimal, bool) {
	values := ExtractMonetaryValues(text)
	if len(values) == 0 {
		return decimal.Decimal{}, false
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return max, true
}

package reconcile

import (
	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders an amount in the Indian numbering system, as printed
// on payment receipts: crore, lakh, thousand, hundred, then the remainder.
// Zero-valued groups emit no grouping word.
func AmountInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + AmountInWords(-n)
	}
	return words(n)
}

// AmountInWordsDecimal rounds to the nearest whole unit before conversion;
// receipts treat currency as whole-rupee for the words rendering.
func AmountInWordsDecimal(amount decimal.Decimal) string {
	return AmountInWords(amount.Round(0).IntPart())
}

// words assumes n > 0.
func words(n int64) string {
	switch {
	case n >= 10000000:
		return group(n, 10000000, "Crore")
	case n >= 100000:
		return group(n, 100000, "Lakh")
	case n >= 1000:
		return group(n, 1000, "Thousand")
	case n >= 100:
		return group(n, 100, "Hundred")
	case n >= 20:
		s := tensWords[n/10]
		if n%10 != 0 {
			s += " " + onesWords[n%10]
		}
		return s
	default:
		return onesWords[n]
	}
}

func group(n, unit int64, name string) string {
	s := words(n/unit) + " " + name
	if rest := n % unit; rest != 0 {
		s += " " + words(rest)
	}
	return s
}

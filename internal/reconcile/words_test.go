package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{5, "Five"},
		{13, "Thirteen"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{99, "Ninety Nine"},
		{100, "One Hundred"},
		{101, "One Hundred One"},
		{345, "Three Hundred Forty Five"},
		{1000, "One Thousand"},
		{1001, "One Thousand One"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{100001, "One Lakh One"},
		{250000, "Two Lakh Fifty Thousand"},
		{10000000, "One Crore"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
		{200000000, "Twenty Crore"},
		{-5, "Minus Five"},
		{-100000, "Minus One Lakh"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.in), "input %d", tc.in)
	}
}

func TestAmountInWords_NoWordForZeroGroup(t *testing.T) {
	// 1,00,00,001 has empty lakh/thousand/hundred groups; none of their
	// grouping words may appear.
	assert.Equal(t, "One Crore One", AmountInWords(10000001))
	assert.Equal(t, "One Lakh Ten", AmountInWords(100010))
}

func TestAmountInWordsDecimal_RoundsToNearestUnit(t *testing.T) {
	assert.Equal(t, "Five Hundred One", AmountInWordsDecimal(decimal.RequireFromString("500.50")))
	assert.Equal(t, "Five Hundred", AmountInWordsDecimal(decimal.RequireFromString("500.49")))
	assert.Equal(t, "Zero", AmountInWordsDecimal(decimal.RequireFromString("0.00")))
}

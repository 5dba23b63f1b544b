package output

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
	hundred  = decimal.NewFromInt(100)
)

// FormatMoney formats an amount compactly: $4.25M, $310.0K, $950
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	switch {
	case d.GreaterThanOrEqual(million):
		return sign + "$" + d.Div(million).StringFixed(2) + "M"
	case d.GreaterThanOrEqual(thousand):
		return sign + "$" + d.Div(thousand).StringFixed(1) + "K"
	}
	return sign + "$" + d.StringFixed(0)
}

// FormatSignedMoney is FormatMoney with an explicit + for gains
func FormatSignedMoney(v float64) string {
	if v > 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatRate formats a 0-1 rate as a percentage with one decimal
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(hundred).StringFixed(1) + "%"
}

// FormatMonths formats a month count with one decimal
func FormatMonths(m float64) string {
	return fmt.Sprintf("%.1f mo", m)
}

// FormatSigned formats a delta with an explicit sign
func FormatSigned(v float64, decimals int) string {
	return fmt.Sprintf("%+.*f", decimals, v)
}

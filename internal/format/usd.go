// Package format holds display helpers shared by the CLI and the API.
package format

import (
	"fmt"
	"math"
	"time"
)

// USDShort renders an amount as a compact label: "1.23 B $", "45.60 M $",
// "12.00 K $", "1,234.56 $" or "0.1234 $" for sub-unit amounts. Amounts
// under 10K keep full precision with thousand separators.
func USDShort(value *float64) string {
	if value == nil {
		return "N/A"
	}

	sign := ""
	abs := *value
	if abs < 0 {
		sign = "-"
		abs = -abs
	}

	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s%.2f B $", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s%.2f M $", sign, abs/1e6)
	case abs >= 1e4:
		return fmt.Sprintf("%s%.2f K $", sign, abs/1e3)
	case abs >= 1:
		return fmt.Sprintf("%s%s $", sign, withThousands(abs))
	default:
		return fmt.Sprintf("%s%.4f $", sign, abs)
	}
}

// Percent renders a plain ratio as a percent label with 4 decimals.
// Used for PnL and annualized return output.
func Percent(ratio *float64) string {
	if ratio == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f %%", *ratio*100)
}

// Timestamp renders a human friendly UTC label for summary output.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// withThousands formats a positive amount with two decimals and comma
// thousand separators.
func withThousands(v float64) string {
	whole := int64(math.Floor(v))
	frac := int64(math.Round((v - math.Floor(v)) * 100))
	if frac >= 100 {
		whole++
		frac = 0
	}

	s := fmt.Sprintf("%d", whole)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return fmt.Sprintf("%s.%02d", s, frac)
}

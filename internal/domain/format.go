package domain

import "fmt"

// FormatMarketCap renders a market cap for display: $1.23B, $4.50M, $12.00K or $9.99.
// A nil value renders as "N/A".
func FormatMarketCap(marketCap *float64) string {
	if marketCap == nil {
		return "N/A"
	}

	v := *marketCap
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.2fK", v/1_000)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

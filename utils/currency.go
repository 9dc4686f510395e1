package utils

import (
	"fmt"
	"math"
)

// Round2 rounds a monetary amount to two decimal places. All wallet and
// order totals are stored with this precision.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatAmount formats a monetary amount for receipts and notifications.
// Example: 13.7 -> "13.70"
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", Round2(amount))
}

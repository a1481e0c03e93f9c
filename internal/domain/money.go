package domain

import (
	"fmt"
	"math"
)

// Monetary amounts are integer paise throughout (₹1 = 100 paise), matching
// the smallest-unit amounts used by the payment gateway.

// RupeesToPaise converts a decimal rupee amount (as served by the backend
// product catalog) to paise, rounding to the nearest paisa.
func RupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// PaiseToRupees converts a paise amount to decimal rupees for backend
// request bodies that expect rupee figures.
func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}

// FormatPaise renders a paise amount as a rupee string, e.g. "₹539.00".
func FormatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}

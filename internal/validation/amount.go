// Package validation holds small input validation helpers shared by the
// service layer.
package validation

import "github.com/shopspring/decimal"

// ValidAmount reports whether d is a positive monetary amount with at most
// two decimal places. All prices, bids and fees use minor-unit precision.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Exponent() >= -2
}

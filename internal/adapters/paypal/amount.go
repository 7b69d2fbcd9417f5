package paypal

import "github.com/shopspring/decimal"

// EncodeAmount formats an amount the way NVP amount fields expect: two decimals, '.' separator
func EncodeAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

package models

import "github.com/shopspring/decimal"

// MenuItem is a dish on the menu. Catalog entries are fixed at startup.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// FormatPrice renders an amount the way the storefront displays prices, e.g. "$12.99".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

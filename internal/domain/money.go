package domain

import "github.com/shopspring/decimal"

// FormatMinor renders a paise amount as a major-unit string, e.g. 275000 -> "2750.00".
func FormatMinor(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}

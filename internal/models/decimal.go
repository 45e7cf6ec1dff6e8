package models

import "github.com/shopspring/decimal"

// Monetary fields serialize as bare JSON numbers; clients do their own
// formatting.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

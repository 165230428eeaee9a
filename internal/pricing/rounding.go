// Package pricing resolves the effective sale price of a catalog item from a
// kiosk's price lists. Everything here is pure: resolution is a function of
// (item, lists, instant) with no clock, storage, or cache access, so it is
// safe to call concurrently for many products.
package pricing

import "github.com/shopspring/decimal"

// Rounding is the rule applied after a list's percentage adjustment.
type Rounding string

const (
	RoundNone       Rounding = "none"
	RoundNearest10  Rounding = "nearest_10"
	RoundNearest50  Rounding = "nearest_50"
	RoundNearest100 Rounding = "nearest_100"
)

var roundingStep = map[Rounding]decimal.Decimal{
	RoundNearest10:  decimal.NewFromInt(10),
	RoundNearest50:  decimal.NewFromInt(50),
	RoundNearest100: decimal.NewFromInt(100),
}

// Round rounds amount to the nearest multiple of the rule's step.
// Halves round away from zero: Round(125, nearest_10) = 130. Unknown rules
// behave like RoundNone.
func Round(amount decimal.Decimal, rule Rounding) decimal.Decimal {
	step, ok := roundingStep[rule]
	if !ok {
		return amount
	}
	return amount.Div(step).Round(0).Mul(step)
}

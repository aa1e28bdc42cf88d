package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
)

// Shipping is the flat shipping charge in rupees applied to every order.
const Shipping = 299

// TaxRate is the GST rate applied to the platform fee only, never to the
// item subtotal. Changing this to tax-on-subtotal is a known reconciliation
// bug, not a simplification.
var TaxRate = decimal.NewFromFloat(0.18)

// FeeBracket maps a subtotal ceiling to the platform fee percentage charged
// below it. Brackets are evaluated in order; the final bracket is open-ended.
type FeeBracket struct {
	MaxSubtotal int
	Percentage  int
}

// feeBrackets is the marketplace fee schedule. The percentage decreases as
// order value grows. The ceiling is inclusive: a subtotal of exactly 2000
// still pays 30 percent.
var feeBrackets = []FeeBracket{
	{MaxSubtotal: 2000, Percentage: 30},
	{MaxSubtotal: 5000, Percentage: 28},
	{MaxSubtotal: 10000, Percentage: 25},
	{MaxSubtotal: 15000, Percentage: 20},
}

const topBracketPercentage = 15

// Totals is the full pricing breakdown for a cart, in whole rupees.
type Totals struct {
	Subtotal              int `json:"subtotal"`
	BechoProtectTotal     int `json:"becho_protect_total"`
	PlatformFeePercentage int `json:"platform_fee_percentage"`
	PlatformFee           int `json:"platform_fee"`
	Tax                   int `json:"tax"`
	Shipping              int `json:"shipping"`
	GrandTotal            int `json:"grand_total"`
}

// FeePercentage resolves the platform fee percentage for a subtotal.
// A zero subtotal lands in the lowest bracket.
func FeePercentage(subtotal int) int {
	if subtotal < 0 {
		subtotal = 0
	}
	for _, bracket := range feeBrackets {
		if subtotal <= bracket.MaxSubtotal {
			return bracket.Percentage
		}
	}
	return topBracketPercentage
}

// Compute derives the order totals for a cart snapshot. A nil cart prices
// as an empty one: every component is zero except the flat shipping charge,
// and the fee percentage reports zero because no bracket applies.
//
// PlatformFee and Tax are rounded to the nearest rupee independently before
// summation so the grand total is always the exact integer sum of its parts.
func Compute(cart *models.Cart) Totals {
	if cart == nil {
		return Totals{Shipping: Shipping, GrandTotal: Shipping}
	}
	return ComputeFromAmounts(cart.Subtotal(), cart.BechoProtectTotal())
}

// ComputeFromAmounts derives totals from raw subtotal and protection
// amounts. Negative inputs are clamped to zero.
func ComputeFromAmounts(subtotal, bechoProtectTotal int) Totals {
	if subtotal < 0 {
		subtotal = 0
	}
	if bechoProtectTotal < 0 {
		bechoProtectTotal = 0
	}

	percentage := FeePercentage(subtotal)

	platformFee := int(decimal.NewFromInt(int64(subtotal)).
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart())

	tax := int(decimal.NewFromInt(int64(platformFee)).
		Mul(TaxRate).
		Round(0).IntPart())

	return Totals{
		Subtotal:              subtotal,
		BechoProtectTotal:     bechoProtectTotal,
		PlatformFeePercentage: percentage,
		PlatformFee:           platformFee,
		Tax:                   tax,
		Shipping:              Shipping,
		GrandTotal:            subtotal + bechoProtectTotal + platformFee + tax + Shipping,
	}
}

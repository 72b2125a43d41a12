// Package calc contains the cost and budget engine: pure computation over
// already-loaded budget, order and supply records. Nothing in this package
// touches the database or the clock; the current instant is always an
// explicit parameter.
//
// All monetary values are peso amounts rounded to 2 fractional digits at
// computation boundaries. Rounding is half-away-from-zero (shopspring/decimal
// Round semantics).
package calc

import (
	"github.com/shopspring/decimal"
)

var (
	// DefaultSauceDaily and DefaultSeasoningDaily are the flat daily supply
	// costs folded into every order.
	DefaultSauceDaily     = decimal.NewFromInt(200)
	DefaultSeasoningDaily = decimal.NewFromInt(200)
)

type BagInput struct {
	WeightKg decimal.Decimal
	BagType  string
}

type CostBreakdown struct {
	ChickenCost    decimal.Decimal
	SauceDaily     decimal.Decimal
	SeasoningDaily decimal.Decimal
	TotalCost      decimal.Decimal
}

// TotalWeight sums the weight of all bags. Range checks on the individual
// weights are the caller's concern; an empty list is rejected here because
// every order must carry at least one bag.
func TotalWeight(bags []BagInput) (decimal.Decimal, error) {
	if len(bags) == 0 {
		verr := &ValidationError{}
		verr.add("bags", "must have at least 1 bag")
		return decimal.Zero, verr
	}

	total := decimal.Zero
	for _, bag := range bags {
		total = total.Add(bag.WeightKg)
	}
	return total.Round(2), nil
}

// ComputeCost derives the cost breakdown for an order:
// chickenCost = totalKg * pricePerKg, totalCost = chickenCost + both daily
// supply costs. Every field is rounded to 2 decimals.
func ComputeCost(totalKg, pricePerKg, sauceDaily, seasoningDaily decimal.Decimal) CostBreakdown {
	chickenCost := totalKg.Mul(pricePerKg).Round(2)
	sauce := sauceDaily.Round(2)
	seasoning := seasoningDaily.Round(2)

	return CostBreakdown{
		ChickenCost:    chickenCost,
		SauceDaily:     sauce,
		SeasoningDaily: seasoning,
		TotalCost:      chickenCost.Add(sauce).Add(seasoning).Round(2),
	}
}

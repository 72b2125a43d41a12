package calc

import (
	"github.com/shopspring/decimal"

	"manok-system/internal/database/models"
)

// Validation limits. These mirror what the dashboard enforces client-side,
// so the two surfaces reject the same inputs.
var (
	MinPricePerKg  = decimal.NewFromInt(50)
	MaxPricePerKg  = decimal.NewFromInt(500)
	MaxBagWeightKg = decimal.NewFromInt(30)

	MinBudgetAmount = decimal.NewFromInt(1000)
	MaxBudgetAmount = decimal.NewFromInt(1000000)
)

const (
	MaxPieces     = 200
	MaxBags       = 20
	MaxNotesChars = 500
)

type OrderInput struct {
	Pieces     int32
	ChopCount  int32
	BuoCount   int32
	PricePerKg decimal.Decimal
	Bags       []BagInput
}

// ValidateOrder checks an order's counts, price and bags in one pass and
// returns a ValidationError listing every violation, or nil.
func ValidateOrder(in OrderInput) error {
	verr := &ValidationError{}

	if in.Pieces < 1 {
		verr.add("pieces", "must have at least 1 piece")
	} else if in.Pieces > MaxPieces {
		verr.add("pieces", "cannot exceed 200 pieces in one order")
	}
	if in.ChopCount < 0 {
		verr.add("chopCount", "cannot be negative")
	}
	if in.BuoCount < 0 {
		verr.add("buoCount", "cannot be negative")
	}
	if in.ChopCount >= 0 && in.BuoCount >= 0 && in.ChopCount+in.BuoCount != in.Pieces {
		verr.add("pieces", "chop count + buo count must equal total pieces")
	}

	if in.PricePerKg.LessThan(MinPricePerKg) {
		verr.add("pricePerKg", "price seems too low (min ₱50/kg)")
	} else if in.PricePerKg.GreaterThan(MaxPricePerKg) {
		verr.add("pricePerKg", "price seems too high (max ₱500/kg)")
	}

	if len(in.Bags) == 0 {
		verr.add("bags", "must have at least 1 bag")
	} else if len(in.Bags) > MaxBags {
		verr.add("bags", "cannot exceed 20 bags in one order")
	}
	for _, bag := range in.Bags {
		if !bag.WeightKg.IsPositive() {
			verr.add("bags", "weight must be positive")
		} else if bag.WeightKg.GreaterThan(MaxBagWeightKg) {
			verr.add("bags", "single bag cannot exceed 30kg")
		}
		if bag.BagType != models.BagTypeFullBag && bag.BagType != models.BagTypeManual {
			verr.add("bags", `bag type must be "full_bag" or "manual"`)
		}
	}

	return verr.orNil()
}

// ValidateBudget checks a new budget's amount and notes.
func ValidateBudget(amount decimal.Decimal, notes string) error {
	verr := &ValidationError{}

	if !amount.IsPositive() {
		verr.add("amount", "budget amount must be positive")
	} else if amount.LessThan(MinBudgetAmount) {
		verr.add("amount", "budget seems too low (min ₱1,000)")
	} else if amount.GreaterThan(MaxBudgetAmount) {
		verr.add("amount", "budget exceeds limit (max ₱1,000,000)")
	}

	if len(notes) > MaxNotesChars {
		verr.add("notes", "notes cannot exceed 500 characters")
	}

	return verr.orNil()
}

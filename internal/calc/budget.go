package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"manok-system/internal/database/models"
)

const (
	AlertTypeBudget   = "budget"
	AlertTypeSupplies = "supplies"

	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type ExceedCheck struct {
	Exceeded   bool
	ExceededBy decimal.Decimal
}

// BudgetSpent sums Cost.TotalCost over the given orders. Orders without a
// cost row contribute nothing.
func BudgetSpent(orders []models.Order) decimal.Decimal {
	spent := decimal.Zero
	for _, order := range orders {
		if order.Cost != nil {
			spent = spent.Add(order.Cost.TotalCost)
		}
	}
	return spent.Round(2)
}

// CheckExceed reports whether an order of the given cost overruns the
// remaining budget, and by how much.
func CheckExceed(remaining, orderCost decimal.Decimal) ExceedCheck {
	exceeded := remaining.LessThan(orderCost)
	exceededBy := decimal.Zero
	if exceeded {
		exceededBy = orderCost.Sub(remaining).Round(2)
	}
	return ExceedCheck{Exceeded: exceeded, ExceededBy: exceededBy}
}

// BudgetPercentage is the spent share of the budget, rounded to the nearest
// whole percent.
func BudgetPercentage(amount, spent decimal.Decimal) int64 {
	if amount.IsZero() {
		return 0
	}
	return spent.Div(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// BudgetAlerts emits at most one alert for the active budget: critical at
// 90% spent or more, warning at 75%. The percentage is computed over the
// budget's lifetime spend, not the weekly subset.
func BudgetAlerts(amount, spent decimal.Decimal) []Alert {
	percentage := BudgetPercentage(amount, spent)
	remaining := amount.Sub(spent)

	switch {
	case percentage >= 90:
		return []Alert{{
			Type:     AlertTypeBudget,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("Budget %d%% spent - only ₱%s remaining", percentage, remaining.StringFixed(2)),
		}}
	case percentage >= 75:
		return []Alert{{
			Type:     AlertTypeBudget,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Budget %d%% spent", percentage),
		}}
	default:
		return nil
	}
}

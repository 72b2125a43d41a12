package calc

import (
	"strings"
	"testing"

	"manok-system/internal/database/models"
)

func orderWithCost(totalCost string) models.Order {
	return models.Order{Cost: &models.Cost{TotalCost: dec(totalCost)}}
}

func TestBudgetSpent(t *testing.T) {
	orders := []models.Order{
		orderWithCost("4450.00"),
		orderWithCost("1900.00"),
		{}, // no cost row yet
	}
	got := BudgetSpent(orders)
	if got.StringFixed(2) != "6350.00" {
		t.Errorf("BudgetSpent = %s, want 6350.00", got.StringFixed(2))
	}

	if !BudgetSpent(nil).IsZero() {
		t.Error("BudgetSpent(nil) should be zero")
	}
}

func TestCheckExceed(t *testing.T) {
	tests := []struct {
		name       string
		remaining  string
		orderCost  string
		exceeded   bool
		exceededBy string
	}{
		{"over budget", "500", "1900", true, "1400.00"},
		{"within budget", "2000", "1900", false, "0.00"},
		{"exact budget", "1900", "1900", false, "0.00"},
		{"negative remaining", "-100", "1900", true, "2000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckExceed(dec(tt.remaining), dec(tt.orderCost))
			if got.Exceeded != tt.exceeded {
				t.Errorf("Exceeded = %v, want %v", got.Exceeded, tt.exceeded)
			}
			if got.ExceededBy.StringFixed(2) != tt.exceededBy {
				t.Errorf("ExceededBy = %s, want %s", got.ExceededBy.StringFixed(2), tt.exceededBy)
			}
		})
	}
}

func TestBudgetPercentage(t *testing.T) {
	tests := []struct {
		amount string
		spent  string
		want   int64
	}{
		{"25000", "23000", 92},
		{"25000", "12500", 50},
		{"25000", "0", 0},
		{"25000", "18750", 75},
		{"0", "100", 0},
	}

	for _, tt := range tests {
		if got := BudgetPercentage(dec(tt.amount), dec(tt.spent)); got != tt.want {
			t.Errorf("BudgetPercentage(%s, %s) = %d, want %d", tt.amount, tt.spent, got, tt.want)
		}
	}
}

func TestBudgetAlerts(t *testing.T) {
	t.Run("critical at 92 percent", func(t *testing.T) {
		alerts := BudgetAlerts(dec("25000"), dec("23000"))
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].Severity != SeverityCritical {
			t.Errorf("Severity = %s, want critical", alerts[0].Severity)
		}
		if !strings.Contains(alerts[0].Message, "2000.00") {
			t.Errorf("critical message should include remaining amount, got %q", alerts[0].Message)
		}
	})

	t.Run("warning at 75 percent", func(t *testing.T) {
		alerts := BudgetAlerts(dec("25000"), dec("18750"))
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].Severity != SeverityWarning {
			t.Errorf("Severity = %s, want warning", alerts[0].Severity)
		}
	})

	t.Run("no alert below 75 percent", func(t *testing.T) {
		if alerts := BudgetAlerts(dec("25000"), dec("18500")); len(alerts) != 0 {
			t.Errorf("expected no alerts, got %v", alerts)
		}
	})

	t.Run("critical boundary at exactly 90", func(t *testing.T) {
		alerts := BudgetAlerts(dec("25000"), dec("22500"))
		if len(alerts) != 1 || alerts[0].Severity != SeverityCritical {
			t.Errorf("expected critical at 90%%, got %v", alerts)
		}
	})
}

// The two order scenarios from the dashboard's acceptance checklist.
func TestOrderScenarios(t *testing.T) {
	t.Run("first order within budget", func(t *testing.T) {
		bags := []BagInput{
			{WeightKg: dec("13.5"), BagType: models.BagTypeFullBag},
			{WeightKg: dec("13.5"), BagType: models.BagTypeFullBag},
		}
		totalKg, err := TotalWeight(bags)
		if err != nil {
			t.Fatal(err)
		}
		if totalKg.StringFixed(1) != "27.0" {
			t.Errorf("totalKg = %s, want 27.0", totalKg.StringFixed(1))
		}

		costs := ComputeCost(totalKg, dec("150"), DefaultSauceDaily, DefaultSeasoningDaily)
		if costs.ChickenCost.StringFixed(2) != "4050.00" {
			t.Errorf("chickenCost = %s, want 4050.00", costs.ChickenCost.StringFixed(2))
		}
		if costs.TotalCost.StringFixed(2) != "4450.00" {
			t.Errorf("totalCost = %s, want 4450.00", costs.TotalCost.StringFixed(2))
		}

		remaining := dec("25000")
		check := CheckExceed(remaining, costs.TotalCost)
		if check.Exceeded {
			t.Error("order should not exceed a fresh 25000 budget")
		}
		budgetAfter := remaining.Sub(costs.TotalCost)
		if budgetAfter.StringFixed(2) != "20550.00" {
			t.Errorf("budgetAfter = %s, want 20550.00", budgetAfter.StringFixed(2))
		}
	})

	t.Run("second order exceeding budget", func(t *testing.T) {
		remaining := dec("300")
		orderCost := dec("1900")

		check := CheckExceed(remaining, orderCost)
		if !check.Exceeded {
			t.Error("order should exceed the budget")
		}
		if check.ExceededBy.StringFixed(2) != "1600.00" {
			t.Errorf("exceededBy = %s, want 1600.00", check.ExceededBy.StringFixed(2))
		}
		budgetAfter := remaining.Sub(orderCost)
		if budgetAfter.StringFixed(2) != "-1600.00" {
			t.Errorf("budgetAfter = %s, want -1600.00", budgetAfter.StringFixed(2))
		}
	})
}

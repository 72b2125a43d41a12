package calc

import (
	"testing"
	"time"

	"manok-system/internal/database/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		// 2024-01-01 was a Monday.
		{"wednesday", time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC), day(2024, 1, 1)},
		{"monday", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), day(2024, 1, 1)},
		{"sunday belongs to previous monday", time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC), day(2024, 1, 1)},
		{"next monday starts a new week", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), day(2024, 1, 8)},
		{"saturday", time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), day(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := WeekWindow(tt.now)
			if !window.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %s, want %s", window.Start, tt.wantStart)
			}
			if !window.End.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("End = %s, want %s", window.End, tt.wantStart.AddDate(0, 0, 7))
			}
			if window.Start.Weekday() != time.Monday {
				t.Errorf("Start weekday = %s, want Monday", window.Start.Weekday())
			}
		})
	}
}

func TestWeekWindowFrom(t *testing.T) {
	ref := day(2024, 1, 3) // a Wednesday; explicit references do not snap to Monday
	window := WeekWindowFrom(ref)
	if !window.Start.Equal(ref) {
		t.Errorf("Start = %s, want %s", window.Start, ref)
	}
	if !window.End.Equal(day(2024, 1, 10)) {
		t.Errorf("End = %s, want %s", window.End, day(2024, 1, 10))
	}
}

func TestWindowHalfOpen(t *testing.T) {
	window := WeekWindow(day(2024, 1, 3))

	if !window.Contains(window.Start) {
		t.Error("window start should be included")
	}
	if window.Contains(window.End) {
		t.Error("window end should be excluded")
	}
	if !window.Contains(window.End.Add(-time.Second)) {
		t.Error("instant just before end should be included")
	}
}

func weekOrder(date time.Time, kg, cost string, exceeded bool) models.Order {
	return models.Order{
		Date:    date,
		TotalKg: dec(kg),
		Cost:    &models.Cost{TotalCost: dec(cost), Exceeded: exceeded},
	}
}

func TestWeeklySummary(t *testing.T) {
	window := WeekWindow(day(2024, 1, 3)) // [2024-01-01, 2024-01-08)

	orders := []models.Order{
		weekOrder(day(2024, 1, 2), "27", "4450.00", false),
		weekOrder(day(2024, 1, 2), "10", "1900.00", true),
		weekOrder(day(2024, 1, 5), "13.5", "2225.00", false),
		// outside the window: on the exclusive end, and before the start
		weekOrder(day(2024, 1, 8), "50", "9000.00", false),
		weekOrder(day(2023, 12, 31), "8", "1500.00", false),
	}

	summary := WeeklySummary(orders, window)

	if summary.OrderCount != 3 {
		t.Errorf("OrderCount = %d, want 3", summary.OrderCount)
	}
	if summary.TotalKg.StringFixed(1) != "50.5" {
		t.Errorf("TotalKg = %s, want 50.5", summary.TotalKg.StringFixed(1))
	}
	if summary.TotalCost.StringFixed(2) != "8575.00" {
		t.Errorf("TotalCost = %s, want 8575.00", summary.TotalCost.StringFixed(2))
	}

	if len(summary.DailyBreakdown) != 2 {
		t.Fatalf("DailyBreakdown length = %d, want 2", len(summary.DailyBreakdown))
	}

	first := summary.DailyBreakdown[0]
	if first.Date != "2024-01-02" {
		t.Errorf("breakdown not sorted ascending, first date = %s", first.Date)
	}
	if first.Orders != 2 {
		t.Errorf("first day Orders = %d, want 2", first.Orders)
	}
	if !first.Exceeded {
		t.Error("first day should be marked exceeded: one of its orders exceeded")
	}

	second := summary.DailyBreakdown[1]
	if second.Date != "2024-01-05" || second.Exceeded {
		t.Errorf("second day = %+v, want 2024-01-05 not exceeded", second)
	}
}

// Weekly figures and lifetime spend are different aggregates over the same
// order set: the window filter must not leak into the lifetime total.
func TestWeeklyVersusLifetimeScope(t *testing.T) {
	window := WeekWindow(day(2024, 1, 3))
	orders := []models.Order{
		weekOrder(day(2024, 1, 2), "27", "4450.00", false),
		weekOrder(day(2023, 12, 20), "27", "4450.00", false),
		weekOrder(day(2023, 12, 10), "27", "4450.00", false),
	}

	summary := WeeklySummary(orders, window)
	if summary.TotalCost.StringFixed(2) != "4450.00" {
		t.Errorf("weekly TotalCost = %s, want 4450.00", summary.TotalCost.StringFixed(2))
	}

	lifetime := BudgetSpent(orders)
	if lifetime.StringFixed(2) != "13350.00" {
		t.Errorf("lifetime spend = %s, want 13350.00", lifetime.StringFixed(2))
	}
}

package calc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"manok-system/internal/database/models"
)

type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the half-open interval [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

type DailyTotal struct {
	Date      string          `json:"date"`
	Orders    int             `json:"orders"`
	TotalKg   decimal.Decimal `json:"totalKg"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Exceeded  bool            `json:"exceeded"`
}

type WeekSummary struct {
	OrderCount     int
	TotalKg        decimal.Decimal
	TotalCost      decimal.Decimal
	DailyBreakdown []DailyTotal
}

// WeekWindow returns the Monday-start week containing now: Monday 00:00:00
// through the following Monday, exclusive. Sunday belongs to the previous
// Monday's window.
func WeekWindow(now time.Time) Window {
	dayOfWeek := int(now.Weekday()) // 0=Sunday..6=Saturday
	back := dayOfWeek - 1
	if dayOfWeek == 0 {
		back = 6
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -back)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// WeekWindowFrom anchors the window at an explicit reference date instead of
// snapping to Monday: [ref, ref+7d).
func WeekWindowFrom(ref time.Time) Window {
	return Window{Start: ref, End: ref.AddDate(0, 0, 7)}
}

// WeeklySummary aggregates the orders whose date falls inside the window:
// order count, total weight, total cost, and a per-day breakdown keyed by the
// UTC calendar date. A day is marked exceeded when any single order on that
// day individually exceeded the budget. Breakdown entries come back sorted
// ascending by date.
//
// Lifetime budget spend is deliberately NOT derived here; callers compute it
// with BudgetSpent over all of the budget's orders. Weekly figures and
// lifetime figures are different aggregates over the same order set.
func WeeklySummary(orders []models.Order, window Window) WeekSummary {
	summary := WeekSummary{
		TotalKg:   decimal.Zero,
		TotalCost: decimal.Zero,
	}

	byDate := make(map[string]*DailyTotal)
	for _, order := range orders {
		if !window.Contains(order.Date) {
			continue
		}

		summary.OrderCount++
		summary.TotalKg = summary.TotalKg.Add(order.TotalKg)

		orderCost := decimal.Zero
		exceeded := false
		if order.Cost != nil {
			orderCost = order.Cost.TotalCost
			exceeded = order.Cost.Exceeded
		}
		summary.TotalCost = summary.TotalCost.Add(orderCost)

		dateKey := order.Date.UTC().Format("2006-01-02")
		day, ok := byDate[dateKey]
		if !ok {
			day = &DailyTotal{Date: dateKey, TotalKg: decimal.Zero, TotalCost: decimal.Zero}
			byDate[dateKey] = day
		}
		day.Orders++
		day.TotalKg = day.TotalKg.Add(order.TotalKg)
		day.TotalCost = day.TotalCost.Add(orderCost)
		if exceeded {
			day.Exceeded = true
		}
	}

	summary.TotalKg = summary.TotalKg.Round(2)
	summary.TotalCost = summary.TotalCost.Round(2)

	summary.DailyBreakdown = make([]DailyTotal, 0, len(byDate))
	for _, day := range byDate {
		day.TotalKg = day.TotalKg.Round(2)
		day.TotalCost = day.TotalCost.Round(2)
		summary.DailyBreakdown = append(summary.DailyBreakdown, *day)
	}
	sort.Slice(summary.DailyBreakdown, func(i, j int) bool {
		return summary.DailyBreakdown[i].Date < summary.DailyBreakdown[j].Date
	})

	return summary
}

package calc

import (
	"fmt"
	"math"
	"time"

	"manok-system/internal/database/models"
)

type SupplyState struct {
	DaysUntilDue int
	Status       string
	Message      string
}

// DaysUntilDue is the whole number of days from now until the refill is due,
// rounded up. Negative values mean the refill is overdue.
func DaysUntilDue(nextRefillDue, now time.Time) int {
	diff := nextRefillDue.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// SupplyStatus classifies a supply against its next refill date: overdue when
// the due date has passed, due_soon within 2 days, ok otherwise.
func SupplyStatus(supply models.Supply, now time.Time) SupplyState {
	days := DaysUntilDue(supply.NextRefillDue, now)

	switch {
	case days < 0:
		return SupplyState{
			DaysUntilDue: days,
			Status:       models.SupplyStatusOverdue,
			Message:      fmt.Sprintf("Overdue by %d day(s)! Reorder NOW", -days),
		}
	case days <= 2:
		return SupplyState{
			DaysUntilDue: days,
			Status:       models.SupplyStatusDueSoon,
			Message:      fmt.Sprintf("Due in %d day(s) - order soon", days),
		}
	default:
		return SupplyState{
			DaysUntilDue: days,
			Status:       models.SupplyStatusOK,
			Message:      fmt.Sprintf("Next refill: %s", supply.NextRefillDue.UTC().Format("2006-01-02")),
		}
	}
}

// SupplyAlerts emits one alert per supply that is overdue (critical) or due
// within 2 days (warning). Supplies further out stay silent.
func SupplyAlerts(supplies []models.Supply, now time.Time) []Alert {
	var alerts []Alert
	for _, supply := range supplies {
		days := DaysUntilDue(supply.NextRefillDue, now)

		if days < 0 {
			alerts = append(alerts, Alert{
				Type:     AlertTypeSupplies,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("%s overdue by %d day(s)!", supply.Type, -days),
			})
		} else if days <= 2 {
			alerts = append(alerts, Alert{
				Type:     AlertTypeSupplies,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s due in %d day(s)", supply.Type, days),
			})
		}
	}
	return alerts
}

// NextRefillDate computes the due date following a refill on refillDate.
func NextRefillDate(refillDate time.Time, frequencyDays int32) time.Time {
	return refillDate.AddDate(0, 0, int(frequencyDays))
}

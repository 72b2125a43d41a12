package calc

import (
	"fmt"
	"testing"
	"time"

	"manok-system/internal/database/models"
)

func supplyDue(nextDue time.Time) models.Supply {
	return models.Supply{
		Type:            models.SupplyTypeSauce,
		NextRefillDue:   nextDue,
		RefillFrequency: 7,
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := day(2024, 1, 10)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due in exactly 2 days", now.AddDate(0, 0, 2), 2},
		{"due in 3 days", now.AddDate(0, 0, 3), 3},
		{"overdue by 1 day", now.AddDate(0, 0, -1), -1},
		{"due today", now, 0},
		{"due in 36 hours rounds up", now.Add(36 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilDue(tt.due, now); got != tt.want {
				t.Errorf("DaysUntilDue = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSupplyStatus(t *testing.T) {
	now := day(2024, 1, 10)

	t.Run("ok beyond 2 days", func(t *testing.T) {
		state := SupplyStatus(supplyDue(now.AddDate(0, 0, 5)), now)
		if state.Status != models.SupplyStatusOK {
			t.Errorf("Status = %s, want ok", state.Status)
		}
		if state.Message != "Next refill: 2024-01-15" {
			t.Errorf("Message = %q", state.Message)
		}
	})

	t.Run("due soon at 2 days", func(t *testing.T) {
		state := SupplyStatus(supplyDue(now.AddDate(0, 0, 2)), now)
		if state.Status != models.SupplyStatusDueSoon {
			t.Errorf("Status = %s, want due_soon", state.Status)
		}
		if state.Message != "Due in 2 day(s) - order soon" {
			t.Errorf("Message = %q", state.Message)
		}
	})

	t.Run("overdue", func(t *testing.T) {
		state := SupplyStatus(supplyDue(now.AddDate(0, 0, -1)), now)
		if state.Status != models.SupplyStatusOverdue {
			t.Errorf("Status = %s, want overdue", state.Status)
		}
		if state.Message != "Overdue by 1 day(s)! Reorder NOW" {
			t.Errorf("Message = %q", state.Message)
		}
	})
}

func TestSupplyAlerts(t *testing.T) {
	now := day(2024, 1, 10)

	tests := []struct {
		name         string
		due          time.Time
		wantAlerts   int
		wantSeverity string
	}{
		{"due in 2 days warns", now.AddDate(0, 0, 2), 1, SeverityWarning},
		{"due in 3 days is silent", now.AddDate(0, 0, 3), 0, ""},
		{"overdue is critical", now.AddDate(0, 0, -1), 1, SeverityCritical},
		{"due today warns", now, 1, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := SupplyAlerts([]models.Supply{supplyDue(tt.due)}, now)
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("got %d alerts, want %d", len(alerts), tt.wantAlerts)
			}
			if tt.wantAlerts > 0 && alerts[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", alerts[0].Severity, tt.wantSeverity)
			}
		})
	}

	t.Run("overdue message reports absolute days", func(t *testing.T) {
		alerts := SupplyAlerts([]models.Supply{supplyDue(now.AddDate(0, 0, -1))}, now)
		want := fmt.Sprintf("%s overdue by 1 day(s)!", models.SupplyTypeSauce)
		if alerts[0].Message != want {
			t.Errorf("Message = %q, want %q", alerts[0].Message, want)
		}
	})

	t.Run("one alert per due supply", func(t *testing.T) {
		supplies := []models.Supply{
			supplyDue(now.AddDate(0, 0, -2)),
			{Type: models.SupplyTypeSeasoning, NextRefillDue: now.AddDate(0, 0, 1), RefillFrequency: 7},
		}
		alerts := SupplyAlerts(supplies, now)
		if len(alerts) != 2 {
			t.Fatalf("got %d alerts, want 2", len(alerts))
		}
	})
}

func TestRefillRoundTrip(t *testing.T) {
	refillDate := day(2024, 1, 10)
	nextDue := NextRefillDate(refillDate, 7)

	if !nextDue.Equal(day(2024, 1, 17)) {
		t.Errorf("NextRefillDate = %s, want 2024-01-17", nextDue)
	}

	// Immediately after the refill the supply reads ok: the new due date is
	// a full week out.
	supply := models.Supply{
		Type:            models.SupplyTypeSauce,
		LastRefill:      refillDate,
		NextRefillDue:   nextDue,
		RefillFrequency: 7,
	}
	state := SupplyStatus(supply, refillDate)
	if state.Status != models.SupplyStatusOK {
		t.Errorf("Status right after refill = %s, want ok", state.Status)
	}
}

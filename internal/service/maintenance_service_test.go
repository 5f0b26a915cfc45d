package service

import (
	"testing"

	"fleet-api/internal/model"
)

func TestNextDueDateFrom(t *testing.T) {
	cases := []struct {
		performedAt string
		everyDays   int
		want        string
	}{
		{"2024-01-01", 90, "2024-03-31"},
		{"2024-01-01", 30, "2024-01-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2024-06-15T10:30:00Z", 7, "2024-06-22"},
	}
	for _, tc := range cases {
		got, err := nextDueDateFrom(tc.performedAt, tc.everyDays)
		if err != nil {
			t.Fatalf("nextDueDateFrom(%q, %d): %v", tc.performedAt, tc.everyDays, err)
		}
		if got != tc.want {
			t.Fatalf("nextDueDateFrom(%q, %d) = %q, want %q", tc.performedAt, tc.everyDays, got, tc.want)
		}
	}
}

func TestNextDueDateFromRejectsGarbage(t *testing.T) {
	if _, err := nextDueDateFrom("not-a-date", 30); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestRollScheduleFields(t *testing.T) {
	days := 90
	km := 5000.0
	odo := 120000.0

	schedule := &model.MaintenanceSchedule{EveryDays: &days, EveryKm: &km}
	fields := rollScheduleFields(schedule, "2024-01-01", &odo)

	if got := fields["next_due_date"]; got != "2024-03-31" {
		t.Fatalf("next_due_date = %v, want 2024-03-31", got)
	}
	if got := fields["next_due_odom_km"]; got != 125000.0 {
		t.Fatalf("next_due_odom_km = %v, want 125000", got)
	}
}

func TestRollScheduleFieldsSkipsOdometerWithoutReading(t *testing.T) {
	km := 5000.0
	schedule := &model.MaintenanceSchedule{EveryKm: &km}

	fields := rollScheduleFields(schedule, "2024-01-01", nil)
	if len(fields) != 0 {
		t.Fatalf("expected no rollover without odometer reading, got %v", fields)
	}
}

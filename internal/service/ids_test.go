package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fleet-api/internal/model"
)

// Repos are nil on purpose: a malformed path id must short-circuit before any
// storage call, otherwise these would panic instead of returning cleanly.
func TestMalformedIDsRejectedBeforeStorage(t *testing.T) {
	ctx := context.Background()
	principal := model.Principal{UserID: uuid.New(), OrgID: uuid.New()}
	const badID = "not-a-uuid"

	check := func(name string, err error) {
		t.Helper()
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s with malformed id: err = %v, want ErrInvalidInput", name, err)
		}
	}

	_, err := NewVehicleService(nil).Get(ctx, principal, badID)
	check("vehicle get", err)
	_, err = NewVehicleService(nil).Update(ctx, principal, badID, UpdateVehicleInput{})
	check("vehicle update", err)

	_, err = NewDriverService(nil).Get(ctx, principal, badID)
	check("driver get", err)
	check("driver delete", NewDriverService(nil).Delete(ctx, principal, badID))

	_, err = NewJobService(nil).Get(ctx, principal, badID)
	check("job get", err)
	_, err = NewJobService(nil).Update(ctx, principal, badID, UpdateJobInput{})
	check("job update", err)
	_, err = NewJobService(nil).Delete(ctx, principal, badID)
	check("job delete", err)

	_, err = NewTripService(nil).Get(ctx, principal, badID)
	check("trip get", err)

	_, err = NewMaintenanceService(nil).UpdateSchedule(ctx, principal, badID, UpdateScheduleInput{})
	check("schedule update", err)
	_, _, err = NewMaintenanceService(nil).CreateLog(ctx, principal, CreateLogInput{
		ScheduleID:  badID,
		PerformedAt: "2024-01-01",
	})
	check("log create", err)

	docs := NewDocumentService(nil, nil, zerolog.Nop())
	_, err = docs.Get(ctx, principal, badID)
	check("document get", err)
	check("document delete", docs.Delete(ctx, principal, badID))
}

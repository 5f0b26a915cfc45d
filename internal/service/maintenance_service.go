package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

const (
	maintenanceDefaultLimit = 100
	maintenanceMaxLimit     = 500
)

func clampMaintenanceLimit(limit int) int {
	if limit <= 0 {
		return maintenanceDefaultLimit
	}
	if limit > maintenanceMaxLimit {
		return maintenanceMaxLimit
	}
	return limit
}

type MaintenanceService struct {
	maintenanceRepo *repository.MaintenanceRepository
}

func NewMaintenanceService(maintenanceRepo *repository.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{maintenanceRepo: maintenanceRepo}
}

type CreateScheduleInput struct {
	VehicleID     string
	Title         string
	Priority      string
	EveryDays     *int
	EveryKm       *float64
	NextDueDate   *string
	NextDueOdomKm *float64
	Notes         *string
}

func (s *MaintenanceService) CreateSchedule(ctx context.Context, principal model.Principal, input CreateScheduleInput) (*model.MaintenanceSchedule, error) {
	vehicleID := strings.TrimSpace(input.VehicleID)
	title := strings.TrimSpace(input.Title)
	if vehicleID == "" || title == "" {
		return nil, ErrInvalidInput
	}
	if input.EveryDays != nil && *input.EveryDays <= 0 {
		return nil, ErrInvalidInput
	}
	if input.EveryKm != nil && *input.EveryKm <= 0 {
		return nil, ErrInvalidInput
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	schedule := &model.MaintenanceSchedule{
		OrgID:         principal.OrgID,
		VehicleID:     vehicleID,
		Title:         title,
		Priority:      priority,
		EveryDays:     input.EveryDays,
		EveryKm:       input.EveryKm,
		NextDueDate:   input.NextDueDate,
		NextDueOdomKm: input.NextDueOdomKm,
		Notes:         input.Notes,
	}
	if err := s.maintenanceRepo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *MaintenanceService) ListSchedules(ctx context.Context, principal model.Principal, vehicleID string, limit int) ([]model.MaintenanceSchedule, error) {
	return s.maintenanceRepo.ListSchedules(ctx, principal.OrgID.String(), vehicleID, clampMaintenanceLimit(limit))
}

type UpdateScheduleInput struct {
	Title         *string
	Priority      *string
	EveryDays     *int
	EveryKm       *float64
	NextDueDate   *string
	NextDueOdomKm *float64
	Notes         *string
}

func (s *MaintenanceService) UpdateSchedule(ctx context.Context, principal model.Principal, id string, input UpdateScheduleInput) (*model.MaintenanceSchedule, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		fields["title"] = title
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.EveryDays != nil {
		if *input.EveryDays <= 0 {
			return nil, ErrInvalidInput
		}
		fields["every_days"] = *input.EveryDays
	}
	if input.EveryKm != nil {
		if *input.EveryKm <= 0 {
			return nil, ErrInvalidInput
		}
		fields["every_km"] = *input.EveryKm
	}
	if input.NextDueDate != nil {
		fields["next_due_date"] = *input.NextDueDate
	}
	if input.NextDueOdomKm != nil {
		fields["next_due_odom_km"] = *input.NextDueOdomKm
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if len(fields) == 0 {
		return s.getSchedule(ctx, principal, id)
	}

	affected, err := s.maintenanceRepo.UpdateSchedule(ctx, principal.OrgID.String(), id, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.getSchedule(ctx, principal, id)
}

func (s *MaintenanceService) getSchedule(ctx context.Context, principal model.Principal, id string) (*model.MaintenanceSchedule, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	schedule, err := s.maintenanceRepo.GetScheduleByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return schedule, nil
}

type CreateLogInput struct {
	ScheduleID  string
	PerformedAt string
	OdometerKm  *float64
	Cost        *float64
	Notes       *string
}

// ScheduleRollover reports the next-due markers advanced by a logged event.
type ScheduleRollover struct {
	NextDueDate   *string  `json:"nextDueDate,omitempty"`
	NextDueOdomKm *float64 `json:"nextDueOdomKm,omitempty"`
}

// CreateLog records a completed maintenance event and rolls the schedule's
// next-due markers forward from the performed date and odometer reading.
func (s *MaintenanceService) CreateLog(ctx context.Context, principal model.Principal, input CreateLogInput) (*model.MaintenanceLog, *ScheduleRollover, error) {
	performedAt := strings.TrimSpace(input.PerformedAt)
	if input.ScheduleID == "" || performedAt == "" {
		return nil, nil, ErrInvalidInput
	}

	schedule, err := s.getSchedule(ctx, principal, input.ScheduleID)
	if err != nil {
		return nil, nil, err
	}

	log := &model.MaintenanceLog{
		OrgID:       principal.OrgID,
		VehicleID:   schedule.VehicleID,
		ScheduleID:  schedule.ID,
		PerformedAt: performedAt,
		OdometerKm:  input.OdometerKm,
		Cost:        input.Cost,
		Notes:       input.Notes,
	}
	if err := s.maintenanceRepo.CreateLog(ctx, log); err != nil {
		return nil, nil, err
	}

	rolled := &ScheduleRollover{}
	fields := rollScheduleFields(schedule, performedAt, input.OdometerKm)
	if len(fields) > 0 {
		if _, err := s.maintenanceRepo.UpdateSchedule(ctx, principal.OrgID.String(), schedule.ID.String(), fields); err != nil {
			return nil, nil, err
		}
		if next, ok := fields["next_due_date"].(string); ok {
			rolled.NextDueDate = &next
		}
		if odom, ok := fields["next_due_odom_km"].(float64); ok {
			rolled.NextDueOdomKm = &odom
		}
	}
	return log, rolled, nil
}

func (s *MaintenanceService) ListLogs(ctx context.Context, principal model.Principal, vehicleID string, limit int) ([]model.MaintenanceLog, error) {
	return s.maintenanceRepo.ListLogs(ctx, principal.OrgID.String(), vehicleID, clampMaintenanceLimit(limit))
}

// rollScheduleFields computes the next-due updates after a logged event.
// Date recurrence rolls from the performed date; distance recurrence rolls
// only when the log carries an odometer reading.
func rollScheduleFields(schedule *model.MaintenanceSchedule, performedAt string, odometerKm *float64) map[string]interface{} {
	fields := map[string]interface{}{}
	if schedule.EveryDays != nil {
		if next, err := nextDueDateFrom(performedAt, *schedule.EveryDays); err == nil {
			fields["next_due_date"] = next
		}
	}
	if schedule.EveryKm != nil && odometerKm != nil {
		fields["next_due_odom_km"] = *odometerKm + *schedule.EveryKm
	}
	return fields
}

func nextDueDateFrom(performedAt string, everyDays int) (string, error) {
	t, err := time.Parse("2006-01-02", performedAt)
	if err != nil {
		t, err = time.Parse(time.RFC3339, performedAt)
		if err != nil {
			return "", err
		}
	}
	return t.AddDate(0, 0, everyDays).Format("2006-01-02"), nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

type JobService struct {
	jobRepo *repository.JobRepository
}

func NewJobService(jobRepo *repository.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

func validJobPriority(p model.JobPriority) bool {
	switch p {
	case model.JobPriorityLow, model.JobPriorityNormal, model.JobPriorityHigh, model.JobPriorityUrgent:
		return true
	}
	return false
}

type CreateJobInput struct {
	Title             string
	Pickup            datatypes.JSON
	Dropoff           datatypes.JSON
	AssignedVehicleID *string
	AssignedDriverID  *string
	Status            string
	Eta               *string
	Notes             *string
	Description       *string
	Priority          string
	ScheduledAt       *time.Time
}

func (s *JobService) Create(ctx context.Context, principal model.Principal, input CreateJobInput) (*model.Job, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	status := model.JobStatusNew
	if input.Status != "" {
		status = model.JobStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidInput
		}
	}
	priority := model.JobPriorityNormal
	if input.Priority != "" {
		priority = model.JobPriority(input.Priority)
		if !validJobPriority(priority) {
			return nil, ErrInvalidInput
		}
	}

	job := &model.Job{
		OrgID:             principal.OrgID,
		Title:             title,
		Pickup:            input.Pickup,
		Dropoff:           input.Dropoff,
		AssignedVehicleID: input.AssignedVehicleID,
		AssignedDriverID:  input.AssignedDriverID,
		Status:            status,
		Eta:               input.Eta,
		Notes:             input.Notes,
		Description:       input.Description,
		Priority:          priority,
		ScheduledAt:       input.ScheduledAt,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns the job even when soft-deleted; cancelled rows stay readable.
func (s *JobService) Get(ctx context.Context, principal model.Principal, id string) (*model.Job, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	job, err := s.jobRepo.GetByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, principal model.Principal, filter repository.JobListFilter) ([]model.Job, int64, error) {
	return s.jobRepo.List(ctx, principal.OrgID.String(), filter)
}

type UpdateJobInput struct {
	Title             *string
	Pickup            datatypes.JSON
	Dropoff           datatypes.JSON
	AssignedVehicleID *string
	AssignedDriverID  *string
	Status            *string
	Eta               *string
	Notes             *string
	Description       *string
	Priority          *string
	ScheduledAt       *time.Time
}

func (s *JobService) Update(ctx context.Context, principal model.Principal, id string, input UpdateJobInput) (*model.Job, error) {
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
	if input.Pickup != nil {
		fields["pickup"] = input.Pickup
	}
	if input.Dropoff != nil {
		fields["dropoff"] = input.Dropoff
	}
	if input.AssignedVehicleID != nil {
		fields["assigned_vehicle_id"] = *input.AssignedVehicleID
	}
	if input.AssignedDriverID != nil {
		fields["assigned_driver_id"] = *input.AssignedDriverID
	}
	if input.Status != nil {
		status := model.JobStatus(*input.Status)
		if !status.Valid() {
			return nil, ErrInvalidInput
		}
		fields["status"] = status
		// Completion timestamp is set once, when the job first turns completed.
		if status == model.JobStatusCompleted {
			current, err := s.Get(ctx, principal, id)
			if err != nil {
				return nil, err
			}
			if current.CompletedAt == nil {
				fields["completed_at"] = time.Now().UTC()
			}
		}
	}
	if input.Eta != nil {
		fields["eta"] = *input.Eta
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Priority != nil {
		priority := model.JobPriority(*input.Priority)
		if !validJobPriority(priority) {
			return nil, ErrInvalidInput
		}
		fields["priority"] = priority
	}
	if input.ScheduledAt != nil {
		fields["scheduled_at"] = *input.ScheduledAt
	}
	if len(fields) == 0 {
		return s.Get(ctx, principal, id)
	}

	affected, err := s.jobRepo.Update(ctx, principal.OrgID.String(), id, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, principal, id)
}

type JobStats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"byStatus"`
	Active    int64            `json:"active"`
	Completed int64            `json:"completed"`
	Failed    int64            `json:"failed"`
}

// Stats groups jobs by status; "active" covers assigned/enroute/arrived and
// "failed" folds cancellations in, matching what the board UI shows.
func (s *JobService) Stats(ctx context.Context, principal model.Principal) (*JobStats, error) {
	rows, err := s.jobRepo.CountByStatus(ctx, principal.OrgID.String())
	if err != nil {
		return nil, err
	}
	stats := &JobStats{ByStatus: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		switch model.JobStatus(row.Status) {
		case model.JobStatusAssigned, model.JobStatusEnroute, model.JobStatusArrived:
			stats.Active += row.Count
		case model.JobStatusCompleted:
			stats.Completed += row.Count
		case model.JobStatusFailed, model.JobStatusCancelled:
			stats.Failed += row.Count
		}
	}
	return stats, nil
}

// Delete is a soft delete: the job flips to cancelled and keeps its row.
func (s *JobService) Delete(ctx context.Context, principal model.Principal, id string) (*model.Job, error) {
	job, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	job.Status = model.JobStatusCancelled
	job.DeletedAt = &now
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

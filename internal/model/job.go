package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusNew       JobStatus = "new"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusEnroute   JobStatus = "enroute"
	JobStatusArrived   JobStatus = "arrived"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusNew, JobStatusAssigned, JobStatusEnroute, JobStatusArrived,
		JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

type Job struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"orgId"`
	Title             string         `gorm:"not null" json:"title"`
	Pickup            datatypes.JSON `json:"pickup,omitempty"`
	Dropoff           datatypes.JSON `json:"dropoff,omitempty"`
	AssignedVehicleID *string        `gorm:"index" json:"assignedVehicleId"`
	AssignedDriverID  *string        `json:"assignedDriverId"`
	Status            JobStatus      `gorm:"type:job_status;not null;default:new" json:"status"`
	// Eta is an opaque provider string; compared as RFC3339 only when it
	// parses as one (dashboard on-time KPI).
	Eta         *string     `json:"eta"`
	Notes       *string     `json:"notes"`
	Description *string     `json:"description,omitempty"`
	Priority    JobPriority `gorm:"type:job_priority;not null;default:normal" json:"priority"`
	ScheduledAt *time.Time  `json:"scheduledAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	// DeletedAt marks soft deletion; the row is never removed and never
	// 404s because of it.
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceSchedule defines a recurrence by elapsed days and/or odometer
// distance. Logging a maintenance event rolls NextDueDate/NextDueOdomKm
// forward according to EveryDays/EveryKm.
type MaintenanceSchedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID         uuid.UUID `gorm:"type:uuid;not null;index" json:"orgId"`
	VehicleID     string    `gorm:"not null;index" json:"vehicleId"`
	Title         string    `gorm:"not null" json:"title"`
	Priority      string    `gorm:"not null;default:medium" json:"priority"`
	EveryDays     *int      `json:"everyDays"`
	EveryKm       *float64  `json:"everyKm"`
	NextDueDate   *string   `json:"nextDueDate"`
	NextDueOdomKm *float64  `json:"nextDueOdomKm"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MaintenanceSchedule) TableName() string {
	return "maintenance_schedules"
}

func (s *MaintenanceSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type MaintenanceLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID       uuid.UUID `gorm:"type:uuid;not null;index" json:"orgId"`
	VehicleID   string    `gorm:"not null;index" json:"vehicleId"`
	ScheduleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"scheduleId"`
	PerformedAt string    `gorm:"not null" json:"performedAt"`
	OdometerKm  *float64  `json:"odometerKm"`
	Cost        *float64  `json:"cost"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MaintenanceLog) TableName() string {
	return "maintenance_logs"
}

func (l *MaintenanceLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

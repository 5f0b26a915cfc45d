package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

type Vehicle struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"orgId"`
	Name         string        `json:"name"`
	Plate        string        `gorm:"type:varchar(32)" json:"plate"`
	Status       VehicleStatus `gorm:"type:vehicle_status;not null;default:active" json:"status"`
	Make         *string       `json:"make"`
	VehicleModel *string       `json:"vehicleModel"`
	Year         *int          `json:"year"`
	VIN          *string       `gorm:"column:vin" json:"vin,omitempty"`
	DeviceID     *string       `json:"deviceId"`
	OdometerKm   float64       `json:"odometerKm"`
	// LastSeenTs is advanced by telemetry ingestion only.
	LastSeenTs *time.Time `json:"lastSeenTs"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

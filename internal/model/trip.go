package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip is a derived per-vehicle journey summary. Trips are written by an
// external aggregation process; this API only reads them.
type Trip struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"orgId"`
	VehicleID       string     `gorm:"not null;index" json:"vehicleId"`
	StartTs         time.Time  `gorm:"not null;index" json:"startTs"`
	EndTs           *time.Time `json:"endTs"`
	DurationMin     *float64   `json:"durationMin"`
	DistanceKm      float64    `gorm:"not null;default:0" json:"distanceKm"`
	AvgSpeedKph     *float64   `json:"avgSpeedKph"`
	MaxSpeedKph     *float64   `json:"maxSpeedKph"`
	IdleMinutes     float64    `gorm:"not null;default:0" json:"idleMinutes"`
	StopCount       int        `gorm:"not null;default:0" json:"stopCount"`
	FuelUsedL       *float64   `json:"fuelUsedL,omitempty"`
	CO2Kg           *float64   `gorm:"column:co2_kg" json:"co2Kg,omitempty"`
	StartLat        *float64   `json:"startLat,omitempty"`
	StartLon        *float64   `json:"startLon,omitempty"`
	EndLat          *float64   `json:"endLat,omitempty"`
	EndLon          *float64   `json:"endLon,omitempty"`
	StartAddress    *string    `json:"startAddress,omitempty"`
	EndAddress      *string    `json:"endAddress,omitempty"`
	Polyline        *string    `json:"polyline,omitempty"`
	HarshAccel      int        `gorm:"not null;default:0" json:"harshAccel"`
	HarshBrake      int        `gorm:"not null;default:0" json:"harshBrake"`
	OverSpeedEvents int        `gorm:"not null;default:0" json:"overSpeedEvents"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Trip) TableName() string {
	return "trips"
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

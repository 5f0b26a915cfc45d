package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Position is an immutable GPS fix. Org and vehicle ids are kept as plain
// strings: they arrive from external telemetry providers and are matched
// against owned entities only when needed.
type Position struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"-"`
	Ts        time.Time `gorm:"not null;index" json:"ts"`
	OrgID     string    `gorm:"not null;index" json:"-"`
	VehicleID string    `gorm:"not null" json:"-"`
	DriverID  *string   `json:"driverId,omitempty"`
	Lat       float64   `gorm:"not null" json:"lat"`
	Lon       float64   `gorm:"not null" json:"lon"`
	SpeedKph  *float64  `json:"speedKph,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	AccuracyM *float64  `json:"accuracyM,omitempty"`
	Ignition  *bool     `json:"ignition,omitempty"`
	Source    string    `gorm:"not null;default:webhook" json:"source"`
}

func (Position) TableName() string {
	return "positions"
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PositionMetadata mirrors the wire shape dashboards expect: org and vehicle
// ids nested under metadata, exactly as fixes are broadcast.
type PositionMetadata struct {
	OrgID     string `json:"orgId"`
	VehicleID string `json:"vehicleId"`
}

type PositionView struct {
	Ts        time.Time        `json:"ts"`
	Metadata  PositionMetadata `json:"metadata"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	SpeedKph  *float64         `json:"speedKph,omitempty"`
	Heading   *float64         `json:"heading,omitempty"`
	AccuracyM *float64         `json:"accuracyM,omitempty"`
	Ignition  *bool            `json:"ignition,omitempty"`
	Source    string           `json:"source"`
}

func (p *Position) View() PositionView {
	return PositionView{
		Ts:        p.Ts,
		Metadata:  PositionMetadata{OrgID: p.OrgID, VehicleID: p.VehicleID},
		Lat:       p.Lat,
		Lon:       p.Lon,
		SpeedKph:  p.SpeedKph,
		Heading:   p.Heading,
		AccuracyM: p.AccuracyM,
		Ignition:  p.Ignition,
		Source:    p.Source,
	}
}

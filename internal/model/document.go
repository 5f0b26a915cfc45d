package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentOwnerType string

const (
	DocumentOwnerVehicle DocumentOwnerType = "vehicle"
	DocumentOwnerDriver  DocumentOwnerType = "driver"
	DocumentOwnerJob     DocumentOwnerType = "job"
)

func (t DocumentOwnerType) Valid() bool {
	switch t {
	case DocumentOwnerVehicle, DocumentOwnerDriver, DocumentOwnerJob:
		return true
	}
	return false
}

// Document is metadata for an externally stored blob. The metadata row is
// authoritative; the blob itself may outlive a failed provider delete.
type Document struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OrgID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"orgId"`
	Type      string            `json:"type"`
	OwnerType DocumentOwnerType `gorm:"not null;index" json:"ownerType"`
	OwnerID   string            `gorm:"not null;index" json:"ownerId"`
	Provider  string            `gorm:"not null;default:cloudinary" json:"provider"`
	PublicID  string            `gorm:"not null" json:"publicId"`
	SecureURL string            `json:"secureUrl"`
	Bytes     int64             `json:"bytes"`
	Format    string            `json:"format"`
	Expiry    *string           `json:"expiry,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

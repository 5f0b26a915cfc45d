package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngestLedger is the idempotency record for webhook events. The unique
// (provider, event_id) index is the only dedupe mechanism: an insert conflict
// means the event was already applied.
type IngestLedger struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Provider  string    `gorm:"not null;uniqueIndex:idx_ingest_ledger_provider_event" json:"provider"`
	EventID   string    `gorm:"not null;uniqueIndex:idx_ingest_ledger_provider_event" json:"eventId"`
	OrgID     string    `json:"orgId"`
	Ts        string    `json:"ts"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (IngestLedger) TableName() string {
	return "ingest_ledger"
}

func (l *IngestLedger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

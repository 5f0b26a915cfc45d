package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Insert records an idempotency row. A gorm.ErrDuplicatedKey result means
// the event was already ingested; callers treat that as a silent skip.
func (r *LedgerRepository) Insert(ctx context.Context, entry *model.IngestLedger) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

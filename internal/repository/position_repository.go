package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) Insert(ctx context.Context, pos *model.Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

// InsertBatch appends a batch of accepted fixes. Positions carry no unique
// constraints, so a batch either lands whole or fails on infrastructure
// errors only; per-event tolerance is handled before this point.
func (r *PositionRepository) InsertBatch(ctx context.Context, fixes []model.Position) error {
	if len(fixes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(fixes, 500).Error
}

type PositionListFilter struct {
	VehicleID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

func (r *PositionRepository) List(ctx context.Context, orgID string, filter PositionListFilter) ([]model.Position, error) {
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.From != nil {
		query = query.Where("ts >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("ts <= ?", *filter.To)
	}
	var positions []model.Position
	err := query.Order("ts DESC").Limit(filter.Limit).Find(&positions).Error
	return positions, err
}

func (r *PositionRepository) CountSince(ctx context.Context, orgID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Position{}).
		Where("org_id = ? AND ts >= ?", orgID, since).
		Count(&count).Error
	return count, err
}

func (r *PositionRepository) LatestTs(ctx context.Context, orgID string) (*time.Time, error) {
	var pos model.Position
	err := r.db.WithContext(ctx).
		Select("ts").
		Where("org_id = ?", orgID).
		Order("ts DESC").
		First(&pos).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pos.Ts, nil
}

func (r *PositionRepository) SpeedingSince(ctx context.Context, orgID string, since time.Time, thresholdKph float64, limit int) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND ts >= ? AND speed_kph > ?", orgID, since, thresholdKph).
		Order("ts DESC").
		Limit(limit).
		Find(&positions).Error
	return positions, err
}

func (r *PositionRepository) DistinctVehiclesSince(ctx context.Context, orgID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Position{}).
		Where("org_id = ? AND ts >= ?", orgID, since).
		Distinct("vehicle_id").
		Count(&count).Error
	return count, err
}

// DeleteOlderThan enforces the retention window; postgres has no collection
// TTL, so the sweeper calls this periodically.
func (r *PositionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("ts < ?", cutoff).
		Delete(&model.Position{})
	return result.RowsAffected, result.Error
}

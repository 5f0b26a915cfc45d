package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

type VehicleListFilter struct {
	Status    *model.VehicleStatus
	Search    string
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
}

var vehicleSortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"name":       "name",
	"plate":      "plate",
	"status":     "status",
	"lastSeenTs": "last_seen_ts",
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, orgID, id string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) List(ctx context.Context, orgID string, filter VehicleListFilter) ([]model.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Vehicle{}).Where("org_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR plate ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := vehicleSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if filter.SortDesc {
		direction = " DESC"
	}

	var vehicles []model.Vehicle
	err := query.Order(column + direction).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *VehicleRepository) ListAll(ctx context.Context, orgID string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&vehicles).Error
	return vehicles, err
}

// Update applies an allow-listed set of column changes and returns the number
// of matched rows.
func (r *VehicleRepository) Update(ctx context.Context, orgID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// TouchLastSeen advances last_seen_ts; unknown vehicle ids are a silent no-op,
// matching webhook semantics.
func (r *VehicleRepository) TouchLastSeen(ctx context.Context, orgID, id string, ts time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Update("last_seen_ts", ts).Error
}

type StatusCount struct {
	Status string
	Count  int64
}

func (r *VehicleRepository) CountByStatus(ctx context.Context, orgID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Select("status, count(*) as count").
		Where("org_id = ?", orgID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *VehicleRepository) ListByStatus(ctx context.Context, orgID string, status model.VehicleStatus, limit int) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, status).
		Order("updated_at DESC").
		Limit(limit).
		Find(&vehicles).Error
	return vehicles, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

type DriverListFilter struct {
	Status *model.DriverStatus
	Search string
	Page   int
	Limit  int
}

func (r *DriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	return r.db.WithContext(ctx).Create(driver).Error
}

func (r *DriverRepository) GetByID(ctx context.Context, orgID, id string) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) List(ctx context.Context, orgID string, filter DriverListFilter) ([]model.Driver, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Driver{}).Where("org_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var drivers []model.Driver
	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&drivers).Error
	if err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

func (r *DriverRepository) Update(ctx context.Context, orgID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Driver{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *DriverRepository) Delete(ctx context.Context, orgID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&model.Driver{})
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) CreateSchedule(ctx context.Context, schedule *model.MaintenanceSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *MaintenanceRepository) GetScheduleByID(ctx context.Context, orgID, id string) (*model.MaintenanceSchedule, error) {
	var schedule model.MaintenanceSchedule
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *MaintenanceRepository) ListSchedules(ctx context.Context, orgID, vehicleID string, limit int) ([]model.MaintenanceSchedule, error) {
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	var schedules []model.MaintenanceSchedule
	err := query.Order("updated_at DESC").Limit(limit).Find(&schedules).Error
	return schedules, err
}

func (r *MaintenanceRepository) UpdateSchedule(ctx context.Context, orgID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.MaintenanceSchedule{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *MaintenanceRepository) CreateLog(ctx context.Context, log *model.MaintenanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *MaintenanceRepository) ListLogs(ctx context.Context, orgID, vehicleID string, limit int) ([]model.MaintenanceLog, error) {
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	var logs []model.MaintenanceLog
	err := query.Order("performed_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

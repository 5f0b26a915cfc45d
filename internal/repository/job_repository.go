package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

type JobListFilter struct {
	Status            *model.JobStatus
	Search            string
	AssignedVehicleID string
	SortBy            string
	SortDesc          bool
	Page              int
	Limit             int
}

var jobSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"status":      "status",
	"priority":    "priority",
	"scheduledAt": "scheduled_at",
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, orgID, id string) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, orgID string, filter JobListFilter) ([]model.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Job{}).Where("org_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedVehicleID != "" {
		query = query.Where("assigned_vehicle_id = ?", filter.AssignedVehicleID)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := jobSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if filter.SortDesc {
		direction = " DESC"
	}

	var jobs []model.Job
	err := query.Order(column + direction).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) Update(ctx context.Context, orgID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *JobRepository) Save(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *JobRepository) CountByStatus(ctx context.Context, orgID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Job{}).
		Select("status, count(*) as count").
		Where("org_id = ?", orgID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *JobRepository) CountCreatedBetween(ctx context.Context, orgID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("org_id = ? AND created_at >= ? AND created_at < ?", orgID, from, to).
		Count(&count).Error
	return count, err
}

func (r *JobRepository) ListCreatedBetween(ctx context.Context, orgID string, from, to time.Time, limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND created_at >= ? AND created_at < ?", orgID, from, to).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// ListCompletedWithEta feeds the on-time KPI: completed jobs that carry both
// an eta and a completion timestamp.
func (r *JobRepository) ListCompletedWithEta(ctx context.Context, orgID string) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Select("id", "eta", "completed_at").
		Where("org_id = ? AND status = ? AND eta IS NOT NULL AND completed_at IS NOT NULL",
			orgID, model.JobStatusCompleted).
		Find(&jobs).Error
	return jobs, err
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-api/internal/model"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

type TripListFilter struct {
	VehicleID string
	From      *time.Time
	To        *time.Time
	SortDesc  bool
	Page      int
	Limit     int
}

func (r *TripRepository) scoped(ctx context.Context, orgID string, filter TripListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Trip{}).Where("org_id = ?", orgID)
	if filter.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.From != nil {
		query = query.Where("start_ts >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_ts <= ?", *filter.To)
	}
	return query
}

func (r *TripRepository) List(ctx context.Context, orgID string, filter TripListFilter) ([]model.Trip, int64, error) {
	query := r.scoped(ctx, orgID, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "start_ts ASC"
	if filter.SortDesc {
		order = "start_ts DESC"
	}

	var trips []model.Trip
	err := query.Order(order).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *TripRepository) ListForExport(ctx context.Context, orgID string, filter TripListFilter) ([]model.Trip, error) {
	order := "start_ts ASC"
	if filter.SortDesc {
		order = "start_ts DESC"
	}
	var trips []model.Trip
	err := r.scoped(ctx, orgID, filter).
		Order(order).
		Limit(filter.Limit).
		Find(&trips).Error
	return trips, err
}

func (r *TripRepository) GetByID(ctx context.Context, orgID, id string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

type TripSummary struct {
	Trips        int64
	TotalKm      float64
	TotalMin     float64
	TotalIdleMin float64
	AvgSpeed     float64
	MaxSpeed     float64
}

func (r *TripRepository) Summary(ctx context.Context, orgID string, filter TripListFilter) (*TripSummary, error) {
	var summary TripSummary
	err := r.scoped(ctx, orgID, filter).
		Select(`count(*) as trips,
			coalesce(sum(distance_km), 0) as total_km,
			coalesce(sum(duration_min), 0) as total_min,
			coalesce(sum(idle_minutes), 0) as total_idle_min,
			coalesce(avg(avg_speed_kph), 0) as avg_speed,
			coalesce(max(max_speed_kph), 0) as max_speed`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SumDistanceFuelSince backs the fuel-efficiency KPI (L/100km over a window).
func (r *TripRepository) SumDistanceFuelSince(ctx context.Context, orgID string, since time.Time) (distanceKm, fuelL float64, err error) {
	var row struct {
		Dist float64
		Fuel float64
	}
	err = r.db.WithContext(ctx).Model(&model.Trip{}).
		Select("coalesce(sum(distance_km), 0) as dist, coalesce(sum(fuel_used_l), 0) as fuel").
		Where("org_id = ? AND start_ts >= ?", orgID, since).
		Scan(&row).Error
	return row.Dist, row.Fuel, err
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

const (
	tripExportDefaultLimit = 5000
	tripExportMaxLimit     = 10000
)

type TripService struct {
	tripRepo *repository.TripRepository
}

func NewTripService(tripRepo *repository.TripRepository) *TripService {
	return &TripService{tripRepo: tripRepo}
}

func (s *TripService) List(ctx context.Context, principal model.Principal, filter repository.TripListFilter) ([]model.Trip, int64, error) {
	return s.tripRepo.List(ctx, principal.OrgID.String(), filter)
}

func (s *TripService) Get(ctx context.Context, principal model.Principal, id string) (*model.Trip, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	trip, err := s.tripRepo.GetByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (s *TripService) Summary(ctx context.Context, principal model.Principal, filter repository.TripListFilter) (*repository.TripSummary, error) {
	return s.tripRepo.Summary(ctx, principal.OrgID.String(), filter)
}

// Export returns the full filtered window, capped so one request cannot drag
// the whole table through memory.
func (s *TripService) Export(ctx context.Context, principal model.Principal, filter repository.TripListFilter) ([]model.Trip, error) {
	if filter.Limit <= 0 {
		filter.Limit = tripExportDefaultLimit
	}
	if filter.Limit > tripExportMaxLimit {
		filter.Limit = tripExportMaxLimit
	}
	return s.tripRepo.ListForExport(ctx, principal.OrgID.String(), filter)
}

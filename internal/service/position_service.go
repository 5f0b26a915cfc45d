package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

const (
	positionDefaultLimit = 500
	positionMaxLimit     = 5000
)

type PositionService struct {
	positionRepo *repository.PositionRepository
	vehicleRepo  *repository.VehicleRepository
	publisher    PositionPublisher
	log          zerolog.Logger
}

func NewPositionService(
	positionRepo *repository.PositionRepository,
	vehicleRepo *repository.VehicleRepository,
	publisher PositionPublisher,
	log zerolog.Logger,
) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		vehicleRepo:  vehicleRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *PositionService) List(ctx context.Context, principal model.Principal, filter repository.PositionListFilter) ([]model.PositionView, error) {
	if filter.Limit <= 0 {
		filter.Limit = positionDefaultLimit
	}
	if filter.Limit > positionMaxLimit {
		filter.Limit = positionMaxLimit
	}
	rows, err := s.positionRepo.List(ctx, principal.OrgID.String(), filter)
	if err != nil {
		return nil, err
	}
	views := make([]model.PositionView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return views, nil
}

type MobilePositionInput struct {
	Lat       *float64
	Lon       *float64
	SpeedKph  *float64
	Heading   *float64
	AccuracyM *float64
	VehicleID string
	DriverID  *string
}

// RecordMobile stores a fix posted by the driver app. Unlike webhook events
// the org comes from the caller's token, not the payload.
func (s *PositionService) RecordMobile(ctx context.Context, principal model.Principal, input MobilePositionInput) (*model.Position, error) {
	if input.Lat == nil || input.Lon == nil {
		return nil, ErrInvalidInput
	}
	lat, lon := *input.Lat, *input.Lon
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return nil, ErrInvalidInput
	}

	pos := &model.Position{
		Ts:        time.Now().UTC(),
		OrgID:     principal.OrgID.String(),
		VehicleID: input.VehicleID,
		DriverID:  input.DriverID,
		Lat:       lat,
		Lon:       lon,
		SpeedKph:  input.SpeedKph,
		Heading:   input.Heading,
		AccuracyM: input.AccuracyM,
		Source:    "mobile",
	}
	if err := s.positionRepo.Insert(ctx, pos); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.Publish(pos.View())
	}
	return pos, nil
}

// SendTestPosition drops a randomized fix near the default map center so the
// dashboard can be exercised without a live tracker.
func (s *PositionService) SendTestPosition(ctx context.Context, principal model.Principal, vehicleID string) (*model.Position, error) {
	if vehicleID == "" {
		return nil, ErrInvalidInput
	}

	speed := math.Round(20 + rand.Float64()*40)
	heading := math.Round(rand.Float64() * 359)
	pos := &model.Position{
		Ts:        time.Now().UTC(),
		OrgID:     principal.OrgID.String(),
		VehicleID: vehicleID,
		Lat:       6.5244 + rand.Float64()*0.01,
		Lon:       3.3792 + rand.Float64()*0.01,
		SpeedKph:  &speed,
		Heading:   &heading,
		Source:    "webhook",
	}
	if err := s.positionRepo.Insert(ctx, pos); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.TouchLastSeen(ctx, pos.OrgID, pos.VehicleID, pos.Ts); err != nil {
		s.log.Warn().Err(err).Str("vehicleId", vehicleID).Msg("lastSeenTs update failed")
	}
	if s.publisher != nil {
		s.publisher.Publish(pos.View())
	}
	return pos, nil
}

// RunRetentionSweeper deletes fixes older than the retention window until the
// context is cancelled. Postgres has no TTL, so this runs as a background
// goroutine next to the HTTP server.
func (s *PositionService) RunRetentionSweeper(ctx context.Context, interval time.Duration, retentionDays int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
			removed, err := s.positionRepo.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				s.log.Error().Err(err).Msg("position retention sweep failed")
				continue
			}
			if removed > 0 {
				s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("position retention sweep")
			}
		}
	}
}

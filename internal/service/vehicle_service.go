package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
	"fleet-api/internal/utils"
)

type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

type CreateVehicleInput struct {
	Name         string
	Plate        string
	Status       string
	Make         *string
	VehicleModel *string
	Year         *int
	VIN          *string
	DeviceID     *string
	OdometerKm   *float64
}

func (s *VehicleService) Create(ctx context.Context, principal model.Principal, input CreateVehicleInput) (*model.Vehicle, error) {
	name := strings.TrimSpace(input.Name)
	plate := utils.NormalizePlate(input.Plate)
	if name == "" || plate == "" {
		return nil, ErrInvalidInput
	}

	status := model.VehicleStatusActive
	if input.Status != "" {
		status = model.VehicleStatus(input.Status)
		if status != model.VehicleStatusActive && status != model.VehicleStatusMaintenance && status != model.VehicleStatusRetired {
			return nil, ErrInvalidInput
		}
	}

	vehicle := &model.Vehicle{
		OrgID:        principal.OrgID,
		Name:         name,
		Plate:        plate,
		Status:       status,
		Make:         input.Make,
		VehicleModel: input.VehicleModel,
		Year:         input.Year,
		VIN:          input.VIN,
		DeviceID:     input.DeviceID,
	}
	if input.OdometerKm != nil {
		vehicle.OdometerKm = *input.OdometerKm
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, principal model.Principal, id string) (*model.Vehicle, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context, principal model.Principal, filter repository.VehicleListFilter) ([]model.Vehicle, int64, error) {
	return s.vehicleRepo.List(ctx, principal.OrgID.String(), filter)
}

// ListAll backs the CSV export; it skips pagination on purpose.
func (s *VehicleService) ListAll(ctx context.Context, principal model.Principal) ([]model.Vehicle, error) {
	return s.vehicleRepo.ListAll(ctx, principal.OrgID.String())
}

type UpdateVehicleInput struct {
	Name         *string
	Plate        *string
	Status       *string
	Make         *string
	VehicleModel *string
	Year         *int
	VIN          *string
	DeviceID     *string
	OdometerKm   *float64
}

// Update applies only the provided fields. lastSeenTs is deliberately not
// updatable here; telemetry ingestion owns it.
func (s *VehicleService) Update(ctx context.Context, principal model.Principal, id string, input UpdateVehicleInput) (*model.Vehicle, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["name"] = name
	}
	if input.Plate != nil {
		plate := utils.NormalizePlate(*input.Plate)
		if plate == "" {
			return nil, ErrInvalidInput
		}
		fields["plate"] = plate
	}
	if input.Status != nil {
		status := model.VehicleStatus(*input.Status)
		if status != model.VehicleStatusActive && status != model.VehicleStatusMaintenance && status != model.VehicleStatusRetired {
			return nil, ErrInvalidInput
		}
		fields["status"] = status
	}
	if input.Make != nil {
		fields["make"] = *input.Make
	}
	if input.VehicleModel != nil {
		fields["vehicle_model"] = *input.VehicleModel
	}
	if input.Year != nil {
		fields["year"] = *input.Year
	}
	if input.VIN != nil {
		fields["vin"] = *input.VIN
	}
	if input.DeviceID != nil {
		fields["device_id"] = *input.DeviceID
	}
	if input.OdometerKm != nil {
		if *input.OdometerKm < 0 {
			return nil, ErrInvalidInput
		}
		fields["odometer_km"] = *input.OdometerKm
	}
	if len(fields) == 0 {
		return s.Get(ctx, principal, id)
	}

	affected, err := s.vehicleRepo.Update(ctx, principal.OrgID.String(), id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, principal, id)
}

package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"fleet-api/internal/model"
	"fleet-api/internal/repository"
)

type DriverService struct {
	driverRepo *repository.DriverRepository
}

func NewDriverService(driverRepo *repository.DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

type CreateDriverInput struct {
	Name             string
	Email            string
	Phone            string
	LicenceNumber    string
	Status           string
	EmergencyContact *model.EmergencyContact
}

func validDriverStatus(s model.DriverStatus) bool {
	switch s {
	case model.DriverStatusActive, model.DriverStatusInactive, model.DriverStatusSuspended:
		return true
	}
	return false
}

func (s *DriverService) Create(ctx context.Context, principal model.Principal, input CreateDriverInput) (*model.Driver, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	status := model.DriverStatusActive
	if input.Status != "" {
		status = model.DriverStatus(input.Status)
		if !validDriverStatus(status) {
			return nil, ErrInvalidInput
		}
	}

	driver := &model.Driver{
		OrgID:         principal.OrgID,
		Name:          name,
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         strings.TrimSpace(input.Phone),
		LicenceNumber: strings.TrimSpace(input.LicenceNumber),
		Status:        status,
	}
	if input.EmergencyContact != nil {
		driver.EmergencyContact = *input.EmergencyContact
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *DriverService) Get(ctx context.Context, principal model.Principal, id string) (*model.Driver, error) {
	if !validID(id) {
		return nil, ErrInvalidInput
	}
	driver, err := s.driverRepo.GetByID(ctx, principal.OrgID.String(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (s *DriverService) List(ctx context.Context, principal model.Principal, filter repository.DriverListFilter) ([]model.Driver, int64, error) {
	return s.driverRepo.List(ctx, principal.OrgID.String(), filter)
}

type UpdateDriverInput struct {
	Name             *string
	Email            *string
	Phone            *string
	LicenceNumber    *string
	Status           *string
	EmergencyContact *model.EmergencyContact
}

func (s *DriverService) Update(ctx context.Context, principal model.Principal, id string, input UpdateDriverInput) (*model.Driver, error) {
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
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.LicenceNumber != nil {
		fields["licence_number"] = strings.TrimSpace(*input.LicenceNumber)
	}
	if input.Status != nil {
		status := model.DriverStatus(*input.Status)
		if !validDriverStatus(status) {
			return nil, ErrInvalidInput
		}
		fields["status"] = status
	}
	if input.EmergencyContact != nil {
		fields["emergency_name"] = input.EmergencyContact.Name
		fields["emergency_phone"] = input.EmergencyContact.Phone
		fields["emergency_relationship"] = input.EmergencyContact.Relationship
	}
	if len(fields) == 0 {
		return s.Get(ctx, principal, id)
	}

	affected, err := s.driverRepo.Update(ctx, principal.OrgID.String(), id, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, principal, id)
}

func (s *DriverService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if !validID(id) {
		return ErrInvalidInput
	}
	affected, err := s.driverRepo.Delete(ctx, principal.OrgID.String(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

package services

import (
	"context"
	"time"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

type MachineService interface {
	GetByID(ctx context.Context, id string) (*models.Machine, error)
	GetAll(ctx context.Context) ([]models.Machine, error)
	Create(ctx context.Context, m *models.Machine) (*models.Machine, error)
	Update(ctx context.Context, id string, name, location *string) (*models.Machine, error)
	Delete(ctx context.Context, id string) error
}

type machineService struct {
	machineRepo repositories.MachineRepository
}

func NewMachineService(machineRepo repositories.MachineRepository) MachineService {
	return &machineService{machineRepo: machineRepo}
}

func (s *machineService) GetByID(ctx context.Context, id string) (*models.Machine, error) {
	return s.machineRepo.FindByID(ctx, id)
}

func (s *machineService) GetAll(ctx context.Context) ([]models.Machine, error) {
	return s.machineRepo.FindAll(ctx)
}

func (s *machineService) Create(ctx context.Context, m *models.Machine) (*models.Machine, error) {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.machineRepo.Store(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *machineService) Update(ctx context.Context, id string, name, location *string) (*models.Machine, error) {
	m, err := s.machineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		m.Name = *name
	}
	if location != nil {
		m.Location = *location
	}
	m.UpdatedAt = time.Now()
	if err := s.machineRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *machineService) Delete(ctx context.Context, id string) error {
	if _, err := s.machineRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.machineRepo.UnassignAllFromMachine(ctx, id); err != nil {
		return err
	}
	return s.machineRepo.Delete(ctx, id)
}

package services

import (
	"context"
	"time"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

type DepartmentService interface {
	GetByID(ctx context.Context, id int) (*models.Department, error)
	GetAll(ctx context.Context) ([]models.Department, error)
	Create(ctx context.Context, d *models.Department) (*models.Department, error)
	Update(ctx context.Context, id int, name, description *string) (*models.Department, error)
	Delete(ctx context.Context, id int) error
}

type departmentService struct {
	departmentRepo repositories.DepartmentRepository
	employeeRepo   repositories.EmployeeRepository
}

func NewDepartmentService(departmentRepo repositories.DepartmentRepository, employeeRepo repositories.EmployeeRepository) DepartmentService {
	return &departmentService{departmentRepo: departmentRepo, employeeRepo: employeeRepo}
}

func (s *departmentService) GetByID(ctx context.Context, id int) (*models.Department, error) {
	return s.departmentRepo.FindByID(ctx, id)
}

func (s *departmentService) GetAll(ctx context.Context) ([]models.Department, error) {
	return s.departmentRepo.FindAll(ctx)
}

func (s *departmentService) Create(ctx context.Context, d *models.Department) (*models.Department, error) {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.departmentRepo.Store(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *departmentService) Update(ctx context.Context, id int, name, description *string) (*models.Department, error) {
	d, err := s.departmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		d.Name = *name
	}
	if description != nil {
		d.Description = *description
	}
	d.UpdatedAt = time.Now()
	if err := s.departmentRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete detaches the department's employees first so no employee row keeps
// a dangling reference.
func (s *departmentService) Delete(ctx context.Context, id int) error {
	if _, err := s.departmentRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.employeeRepo.ClearDepartment(ctx, id); err != nil {
		return err
	}
	return s.departmentRepo.Delete(ctx, id)
}

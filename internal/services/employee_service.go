package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

type EmployeeService interface {
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByNumber(ctx context.Context, number int) (*models.Employee, error)
	GetAll(ctx context.Context) ([]models.Employee, error)
	GetByDepartment(ctx context.Context, departmentID int) ([]models.Employee, error)
	GetAllAdmins(ctx context.Context) ([]models.Employee, error)
	GetAllUsers(ctx context.Context) ([]models.Employee, error)

	CreateWithMachines(ctx context.Context, employee *models.Employee, plainPassword string, departmentID *int, machineIDs []string) (*models.Employee, error)
	UpdateWithMachines(ctx context.Context, id string, patch *models.EmployeePatch, departmentID *int, machineIDs []string) (*models.Employee, error)
	Delete(ctx context.Context, id string) error

	MachineIDs(ctx context.Context, employeeID string) ([]string, error)
	ValidateLogin(ctx context.Context, employeeNumber int, password string) (*models.Employee, error)
}

type employeeService struct {
	employeeRepo   repositories.EmployeeRepository
	departmentRepo repositories.DepartmentRepository
	machineRepo    repositories.MachineRepository
	assignmentRepo repositories.AssignmentRepository
}

func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	departmentRepo repositories.DepartmentRepository,
	machineRepo repositories.MachineRepository,
	assignmentRepo repositories.AssignmentRepository,
) EmployeeService {
	return &employeeService{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		machineRepo:    machineRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	return s.employeeRepo.FindByID(ctx, id)
}

func (s *employeeService) GetByNumber(ctx context.Context, number int) (*models.Employee, error) {
	return s.employeeRepo.FindByNumber(ctx, number)
}

func (s *employeeService) GetAll(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.FindAll(ctx)
}

func (s *employeeService) GetByDepartment(ctx context.Context, departmentID int) ([]models.Employee, error) {
	return s.employeeRepo.FindByDepartmentID(ctx, departmentID)
}

func (s *employeeService) GetAllAdmins(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.FindByRole(ctx, models.RoleAdmin)
}

func (s *employeeService) GetAllUsers(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.FindByRole(ctx, models.RoleUser)
}

// CreateWithMachines registers an employee, assigning the next free employee
// number when none is given. Without an explicit password the initial one is
// derived from the date of birth. Machine assignment failures are logged and
// skipped; they never fail the creation.
func (s *employeeService) CreateWithMachines(ctx context.Context, employee *models.Employee, plainPassword string, departmentID *int, machineIDs []string) (*models.Employee, error) {
	if employee.EmployeeNumber != 0 {
		exists, err := s.employeeRepo.ExistsByNumber(ctx, employee.EmployeeNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("employee number already exists: %d", employee.EmployeeNumber)
		}
	} else {
		max, err := s.employeeRepo.MaxEmployeeNumber(ctx)
		if err != nil {
			return nil, err
		}
		employee.EmployeeNumber = max + 1
	}
	employee.ID = models.FormatEmployeeID(employee.EmployeeNumber)

	if employee.Email != "" {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, employee.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("email already exists: %s", employee.Email)
		}
	}

	if departmentID != nil {
		if _, err := s.departmentRepo.FindByID(ctx, *departmentID); err != nil {
			return nil, err
		}
		employee.DepartmentID = departmentID
	}

	if strings.TrimSpace(plainPassword) == "" {
		if employee.DateOfBirth == nil {
			return nil, fmt.Errorf("password or date of birth required")
		}
		plainPassword = models.PasswordFromDate(*employee.DateOfBirth)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt generate: %w", err)
	}
	employee.PasswordHash = string(hash)

	if employee.Role == "" {
		employee.Role = models.RoleUser
	}
	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	if err := s.employeeRepo.Store(ctx, employee); err != nil {
		return nil, err
	}

	s.assignMachines(ctx, employee.ID, machineIDs)
	return employee, nil
}

func (s *employeeService) assignMachines(ctx context.Context, employeeID string, machineIDs []string) {
	for _, machineID := range machineIDs {
		if _, err := s.machineRepo.FindByID(ctx, machineID); err != nil {
			log.Printf("[employee][machine][skip] employee=%s machine=%s: %v", employeeID, machineID, err)
			continue
		}
		assigned, err := s.machineRepo.IsAssigned(ctx, employeeID, machineID)
		if err == nil && assigned {
			continue
		}
		if err := s.machineRepo.AssignToEmployee(ctx, employeeID, machineID); err != nil {
			log.Printf("[employee][machine][skip] employee=%s machine=%s: %v", employeeID, machineID, err)
		}
	}
}

// UpdateWithMachines applies a field overlay. A nil departmentID detaches
// the employee; a non-nil machineIDs replaces the machine set wholesale.
// Changing the date of birth resets the password to the derived default.
func (s *employeeService) UpdateWithMachines(ctx context.Context, id string, patch *models.EmployeePatch, departmentID *int, machineIDs []string) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch != nil {
		if patch.EmployeeNumber != nil && *patch.EmployeeNumber != employee.EmployeeNumber {
			exists, err := s.employeeRepo.ExistsByNumber(ctx, *patch.EmployeeNumber)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("employee number already exists: %d", *patch.EmployeeNumber)
			}
			employee.EmployeeNumber = *patch.EmployeeNumber
		}
		if patch.Email != nil && *patch.Email != employee.Email {
			exists, err := s.employeeRepo.ExistsByEmail(ctx, *patch.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("email already exists: %s", *patch.Email)
			}
			employee.Email = *patch.Email
		}
		if patch.Name != nil {
			employee.Name = *patch.Name
		}
		if patch.DateOfBirth != nil {
			employee.DateOfBirth = patch.DateOfBirth
			hash, err := bcrypt.GenerateFromPassword(
				[]byte(models.PasswordFromDate(*patch.DateOfBirth)), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("bcrypt generate: %w", err)
			}
			employee.PasswordHash = string(hash)
			log.Printf("[employee][update] password reset for %s from new birth date", id)
		}
		if patch.Role != nil {
			employee.Role = *patch.Role
		}
	}

	if departmentID != nil {
		if _, err := s.departmentRepo.FindByID(ctx, *departmentID); err != nil {
			return nil, err
		}
		employee.DepartmentID = departmentID
	} else {
		employee.DepartmentID = nil
	}

	employee.UpdatedAt = time.Now()
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}

	if machineIDs != nil {
		if err := s.machineRepo.UnassignAllFromEmployee(ctx, id); err != nil {
			return nil, err
		}
		s.assignMachines(ctx, id, machineIDs)
	}
	return employee, nil
}

// Delete removes the employee after cleaning up machine links and task
// assignments referencing them.
func (s *employeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.employeeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.machineRepo.UnassignAllFromEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteByEmployeeID(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}

func (s *employeeService) MachineIDs(ctx context.Context, employeeID string) ([]string, error) {
	return s.machineRepo.MachineIDsByEmployee(ctx, employeeID)
}

func (s *employeeService) ValidateLogin(ctx context.Context, employeeNumber int, password string) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByNumber(ctx, employeeNumber)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return employee, nil
}

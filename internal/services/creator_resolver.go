package services

import (
	"context"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

// CreatorResolver decides who owns a new task: the explicit creator when one
// is given, otherwise the first administrator on file. Failing both is a
// hard error — every task must have a creator.
type CreatorResolver struct {
	employees repositories.EmployeeRepository
}

func NewCreatorResolver(employees repositories.EmployeeRepository) *CreatorResolver {
	return &CreatorResolver{employees: employees}
}

func (r *CreatorResolver) Resolve(ctx context.Context, explicitID string) (string, error) {
	if explicitID != "" {
		emp, err := r.employees.FindByID(ctx, explicitID)
		if err != nil {
			return "", err
		}
		return emp.ID, nil
	}

	admins, err := r.employees.FindByRole(ctx, models.RoleAdmin)
	if err != nil {
		return "", err
	}
	if len(admins) == 0 {
		return "", ErrNoAdminCreator
	}
	return admins[0].ID, nil
}

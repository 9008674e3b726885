package repositories

import (
	"context"
	"database/sql"

	"workdesk/internal/models"
)

type MachineRepository interface {
	Store(ctx context.Context, m *models.Machine) error
	FindByID(ctx context.Context, id string) (*models.Machine, error)
	FindAll(ctx context.Context) ([]models.Machine, error)
	Update(ctx context.Context, m *models.Machine) error
	Delete(ctx context.Context, id string) error

	AssignToEmployee(ctx context.Context, employeeID, machineID string) error
	MachineIDsByEmployee(ctx context.Context, employeeID string) ([]string, error)
	IsAssigned(ctx context.Context, employeeID, machineID string) (bool, error)
	UnassignAllFromEmployee(ctx context.Context, employeeID string) error
	UnassignAllFromMachine(ctx context.Context, machineID string) error
}

type machineRepository struct {
	db *sql.DB
}

func NewMachineRepository(db *sql.DB) MachineRepository {
	return &machineRepository{db: db}
}

func (r *machineRepository) Store(ctx context.Context, m *models.Machine) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO machines (id, name, location, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.Name, m.Location, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *machineRepository) FindByID(ctx context.Context, id string) (*models.Machine, error) {
	m := &models.Machine{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, created_at, updated_at FROM machines WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Location, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *machineRepository) FindAll(ctx context.Context) ([]models.Machine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, created_at, updated_at FROM machines ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Machine
	for rows.Next() {
		var m models.Machine
		if err := rows.Scan(&m.ID, &m.Name, &m.Location, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *machineRepository) Update(ctx context.Context, m *models.Machine) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE machines SET name=$1, location=$2, updated_at=$3 WHERE id=$4`,
		m.Name, m.Location, m.UpdatedAt, m.ID)
	return err
}

func (r *machineRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM machines WHERE id = $1`, id)
	return err
}

func (r *machineRepository) AssignToEmployee(ctx context.Context, employeeID, machineID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employee_machines (employee_id, machine_id, assigned_at) VALUES ($1,$2,NOW())`,
		employeeID, machineID)
	return err
}

func (r *machineRepository) MachineIDsByEmployee(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT machine_id FROM employee_machines WHERE employee_id = $1 ORDER BY machine_id`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *machineRepository) IsAssigned(ctx context.Context, employeeID, machineID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM employee_machines WHERE employee_id = $1 AND machine_id = $2)`,
		employeeID, machineID).Scan(&exists)
	return exists, err
}

func (r *machineRepository) UnassignAllFromEmployee(ctx context.Context, employeeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM employee_machines WHERE employee_id = $1`, employeeID)
	return err
}

func (r *machineRepository) UnassignAllFromMachine(ctx context.Context, machineID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM employee_machines WHERE machine_id = $1`, machineID)
	return err
}

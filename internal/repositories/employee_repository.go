package repositories

import (
	"context"
	"database/sql"

	"workdesk/internal/models"
)

type EmployeeRepository interface {
	Store(ctx context.Context, e *models.Employee) error
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByNumber(ctx context.Context, number int) (*models.Employee, error)
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByDepartmentID(ctx context.Context, departmentID int) ([]models.Employee, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id string) error

	ExistsByNumber(ctx context.Context, number int) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	MaxEmployeeNumber(ctx context.Context) (int, error)
	ClearDepartment(ctx context.Context, departmentID int) error
	Count(ctx context.Context) (int64, error)
}

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, employee_number, name, email, password_hash, date_of_birth, role, department_id, created_at, updated_at`

func (r *employeeRepository) Store(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (id, employee_number, name, email, password_hash, date_of_birth, role, department_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EmployeeNumber, e.Name, e.Email, e.PasswordHash, e.DateOfBirth,
		e.Role, e.DepartmentID, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *employeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *employeeRepository) FindByNumber(ctx context.Context, number int) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, number))
}

func (r *employeeRepository) FindAll(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY employee_number`
	return r.queryEmployees(ctx, query)
}

func (r *employeeRepository) FindByDepartmentID(ctx context.Context, departmentID int) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department_id = $1 ORDER BY employee_number`
	return r.queryEmployees(ctx, query, departmentID)
}

func (r *employeeRepository) FindByRole(ctx context.Context, role models.Role) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE role = $1 ORDER BY employee_number`
	return r.queryEmployees(ctx, query, role)
}

func (r *employeeRepository) Update(ctx context.Context, e *models.Employee) error {
	query := `
		UPDATE employees SET
			employee_number=$1, name=$2, email=$3, password_hash=$4, date_of_birth=$5,
			role=$6, department_id=$7, updated_at=$8
		WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query,
		e.EmployeeNumber, e.Name, e.Email, e.PasswordHash, e.DateOfBirth,
		e.Role, e.DepartmentID, e.UpdatedAt, e.ID)
	return err
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}

func (r *employeeRepository) ExistsByNumber(ctx context.Context, number int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE employee_number = $1)`, number).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) MaxEmployeeNumber(ctx context.Context) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(employee_number) FROM employees`).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// ClearDepartment detaches every employee from the department. Used before
// the department row itself is removed.
func (r *employeeRepository) ClearDepartment(ctx context.Context, departmentID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET department_id = NULL, updated_at = NOW() WHERE department_id = $1`,
		departmentID)
	return err
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

func (r *employeeRepository) scanOne(row rowScanner) (*models.Employee, error) {
	e := &models.Employee{}
	var email sql.NullString
	if err := row.Scan(
		&e.ID, &e.EmployeeNumber, &e.Name, &email, &e.PasswordHash, &e.DateOfBirth,
		&e.Role, &e.DepartmentID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	e.Email = email.String
	return e, nil
}

func (r *employeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		var email sql.NullString
		if err := rows.Scan(
			&e.ID, &e.EmployeeNumber, &e.Name, &email, &e.PasswordHash, &e.DateOfBirth,
			&e.Role, &e.DepartmentID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Email = email.String
		out = append(out, e)
	}
	return out, rows.Err()
}

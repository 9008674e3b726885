package repositories

import (
	"context"
	"database/sql"

	"workdesk/internal/models"
)

type DepartmentRepository interface {
	Store(ctx context.Context, d *models.Department) error
	FindByID(ctx context.Context, id int) (*models.Department, error)
	FindAll(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, d *models.Department) error
	Delete(ctx context.Context, id int) error
}

type departmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Store(ctx context.Context, d *models.Department) error {
	query := `
		INSERT INTO departments (name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		d.Name, d.Description, d.CreatedAt, d.UpdatedAt).Scan(&d.ID)
}

func (r *departmentRepository) FindByID(ctx context.Context, id int) (*models.Department, error) {
	d := &models.Department{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *departmentRepository) Update(ctx context.Context, d *models.Department) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE departments SET name=$1, description=$2, updated_at=$3 WHERE id=$4`,
		d.Name, d.Description, d.UpdatedAt, d.ID)
	return err
}

func (r *departmentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	return err
}

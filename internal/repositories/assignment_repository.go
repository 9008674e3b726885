package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"workdesk/internal/models"
)

type AssignmentRepository interface {
	Store(ctx context.Context, a *models.TaskAssignment) error
	FindByID(ctx context.Context, id int64) (*models.TaskAssignment, error)
	FindByTaskID(ctx context.Context, taskID int64) ([]models.TaskAssignment, error)
	FindByEmployeeID(ctx context.Context, employeeID string) ([]models.TaskAssignment, error)
	FindByTaskAndEmployee(ctx context.Context, taskID int64, employeeID string) (*models.TaskAssignment, error)
	Update(ctx context.Context, a *models.TaskAssignment) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteByTaskID(ctx context.Context, taskID int64) error
	DeleteByEmployeeID(ctx context.Context, employeeID string) error

	CountByEmployeeID(ctx context.Context, employeeID string) (int64, error)
	CountByEmployeeAndStatus(ctx context.Context, employeeID string, status models.TaskStatus) (int64, error)
}

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, task_id, employee_id, individual_status, assigned_at, started_at, completed_at, report`

func (r *assignmentRepository) Store(ctx context.Context, a *models.TaskAssignment) error {
	query := `
		INSERT INTO task_assignments (task_id, employee_id, individual_status, assigned_at, started_at, completed_at, report)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		a.TaskID, a.EmployeeID, a.IndividualStatus, a.AssignedAt, a.StartedAt, a.CompletedAt, a.Report,
	).Scan(&a.ID)
	if err != nil {
		// 23505 = unique_violation on (task_id, employee_id)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateAssignment
		}
		return err
	}
	return nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id int64) (*models.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE id = $1`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) FindByTaskID(ctx context.Context, taskID int64) ([]models.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = $1 ORDER BY assigned_at`
	return r.queryAssignments(ctx, query, taskID)
}

func (r *assignmentRepository) FindByEmployeeID(ctx context.Context, employeeID string) ([]models.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE employee_id = $1 ORDER BY assigned_at DESC`
	return r.queryAssignments(ctx, query, employeeID)
}

func (r *assignmentRepository) FindByTaskAndEmployee(ctx context.Context, taskID int64, employeeID string) (*models.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = $1 AND employee_id = $2`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, taskID, employeeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *models.TaskAssignment) error {
	query := `
		UPDATE task_assignments SET
			individual_status=$1, started_at=$2, completed_at=$3, report=$4
		WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query,
		a.IndividualStatus, a.StartedAt, a.CompletedAt, a.Report, a.ID)
	return err
}

func (r *assignmentRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE id = $1`, id)
	return err
}

func (r *assignmentRepository) DeleteByTaskID(ctx context.Context, taskID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE task_id = $1`, taskID)
	return err
}

func (r *assignmentRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE employee_id = $1`, employeeID)
	return err
}

func (r *assignmentRepository) CountByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_assignments WHERE employee_id = $1`, employeeID).Scan(&n)
	return n, err
}

func (r *assignmentRepository) CountByEmployeeAndStatus(ctx context.Context, employeeID string, status models.TaskStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_assignments WHERE employee_id = $1 AND individual_status = $2`,
		employeeID, status).Scan(&n)
	return n, err
}

func (r *assignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]models.TaskAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskAssignment
	for rows.Next() {
		var a models.TaskAssignment
		var report sql.NullString
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.EmployeeID, &a.IndividualStatus,
			&a.AssignedAt, &a.StartedAt, &a.CompletedAt, &report,
		); err != nil {
			return nil, err
		}
		a.Report = report.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(row rowScanner) (*models.TaskAssignment, error) {
	a := &models.TaskAssignment{}
	var report sql.NullString
	if err := row.Scan(
		&a.ID, &a.TaskID, &a.EmployeeID, &a.IndividualStatus,
		&a.AssignedAt, &a.StartedAt, &a.CompletedAt, &report,
	); err != nil {
		return nil, err
	}
	a.Report = report.String
	return a, nil
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"workdesk/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)

	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus, completedAt *time.Time) error
	FindActiveRecurringByType(ctx context.Context, rtype models.RecurrenceType, now time.Time) ([]models.Task, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error)
	FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
	FindRecent(ctx context.Context, limit int) ([]models.Task, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error)
	CountByType(ctx context.Context, taskType models.TaskType) (int64, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, task_type, status, due_date, completed_at,
       creator_id, department_id, location,
       recurring, recurrence_type, recurrence_interval, recurrence_end_date,
       recurring_day_of_week, recurring_day_of_month, skip_weekends, next_execution_date,
       created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			title, description, task_type, status, due_date, completed_at,
			creator_id, department_id, location,
			recurring, recurrence_type, recurrence_interval, recurrence_end_date,
			recurring_day_of_week, recurring_day_of_month, skip_weekends, next_execution_date,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.TaskType, task.Status, task.DueDate, task.CompletedAt,
		task.CreatorID, task.DepartmentID, task.Location,
		task.Recurring, nullString(string(task.RecurrenceType)), task.RecurrenceInterval,
		task.RecurrenceEndDate, task.RecurringDayOfWeek, task.RecurringDayOfMonth,
		task.SkipWeekends, task.NextExecutionDate,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTaskRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.TaskType != nil {
		conditions = append(conditions, fmt.Sprintf("task_type = $%d", argID))
		args = append(args, *filter.TaskType)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CreatorID != nil {
		conditions = append(conditions, fmt.Sprintf("creator_id = $%d", argID))
		args = append(args, *filter.CreatorID)
		argID++
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", argID))
		args = append(args, *filter.DepartmentID)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	return r.queryTasks(ctx, baseQuery, args...)
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, task_type=$3, status=$4, due_date=$5, completed_at=$6,
			department_id=$7, location=$8,
			recurring=$9, recurrence_type=$10, recurrence_interval=$11, recurrence_end_date=$12,
			recurring_day_of_week=$13, recurring_day_of_month=$14, skip_weekends=$15,
			next_execution_date=$16, updated_at=$17
		WHERE id=$18`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.TaskType, task.Status, task.DueDate, task.CompletedAt,
		task.DepartmentID, task.Location,
		task.Recurring, nullString(string(task.RecurrenceType)), task.RecurrenceInterval,
		task.RecurrenceEndDate, task.RecurringDayOfWeek, task.RecurringDayOfMonth,
		task.SkipWeekends, task.NextExecutionDate, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus, completedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, completed_at=$2, updated_at=NOW() WHERE id=$3`,
		to, completedAt, id)
	return err
}

// FindActiveRecurringByType returns recurring templates of the given cadence
// whose end date is unset or still in the future.
func (r *taskRepository) FindActiveRecurringByType(ctx context.Context, rtype models.RecurrenceType, now time.Time) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks
WHERE recurring = TRUE
  AND recurrence_type = $1
  AND (recurrence_end_date IS NULL OR recurrence_end_date > $2)
ORDER BY id`
	return r.queryTasks(ctx, q, rtype, now)
}

func (r *taskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks
WHERE recurring = FALSE
  AND status <> 'COMPLETED'
  AND due_date >= $1 AND due_date <= $2
ORDER BY due_date ASC`
	return r.queryTasks(ctx, q, from, to)
}

func (r *taskRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks
WHERE recurring = FALSE
  AND status <> 'COMPLETED'
  AND due_date < $1
ORDER BY due_date ASC`
	return r.queryTasks(ctx, q, now)
}

func (r *taskRepository) FindRecent(ctx context.Context, limit int) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC LIMIT $1`
	return r.queryTasks(ctx, q, limit)
}

func (r *taskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

func (r *taskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *taskRepository) CountByType(ctx context.Context, taskType models.TaskType) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE task_type = $1`, taskType).Scan(&n)
	return n, err
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskRow(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var rtype sql.NullString
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.TaskType, &t.Status, &t.DueDate, &t.CompletedAt,
		&t.CreatorID, &t.DepartmentID, &t.Location,
		&t.Recurring, &rtype, &t.RecurrenceInterval, &t.RecurrenceEndDate,
		&t.RecurringDayOfWeek, &t.RecurringDayOfMonth, &t.SkipWeekends, &t.NextExecutionDate,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if rtype.Valid {
		t.RecurrenceType = models.RecurrenceType(rtype.String)
	}
	return t, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// internal/services/task_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

// TaskService owns the task lifecycle: creation with assignment fan-out,
// field-overlay updates with full reassignment, individual status/report
// updates and the roll-up of assignment states into the task status.
type TaskService interface {
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	CreateWithAssignments(ctx context.Context, task *models.Task, departmentID *int, employeeIDs []string) (*models.Task, error)
	UpdateWithAssignments(ctx context.Context, id int64, patch *models.TaskPatch, departmentID *int, employeeIDs []string) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)

	UpdateIndividualStatus(ctx context.Context, taskID int64, employeeID string, to models.TaskStatus) (*models.TaskAssignment, error)
	SubmitReport(ctx context.Context, taskID int64, employeeID, report string, to models.TaskStatus) (*models.TaskAssignment, error)
	AssignmentsByTask(ctx context.Context, taskID int64) ([]models.TaskAssignment, error)
	AssignmentsByEmployee(ctx context.Context, employeeID string) ([]models.TaskAssignment, error)

	GetTasksDueSoon(ctx context.Context, hoursAhead int) ([]models.Task, error)
	GetOverdueTasks(ctx context.Context) ([]models.Task, error)
	GetRecentTasks(ctx context.Context, limit int) ([]models.Task, error)
	GetActiveRecurringByType(ctx context.Context, rtype models.RecurrenceType) ([]models.Task, error)

	CreateUserTask(ctx context.Context, task *models.Task, employeeID string) (*models.Task, error)
	DeleteUserTask(ctx context.Context, taskID int64, employeeID string) error
}

type taskService struct {
	taskRepo       repositories.TaskRepository
	assignmentRepo repositories.AssignmentRepository
	employeeRepo   repositories.EmployeeRepository
	departmentRepo repositories.DepartmentRepository
	creators       *CreatorResolver
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(
	taskRepo repositories.TaskRepository,
	assignmentRepo repositories.AssignmentRepository,
	employeeRepo repositories.EmployeeRepository,
	departmentRepo repositories.DepartmentRepository,
	creators *CreatorResolver,
) TaskService {
	return &taskService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		creators:       creators,
	}
}

// DeriveOverallStatus rolls the individual assignment states up into one
// task-level status. With no assignments the task keeps its own stored
// status; all-completed wins over any-in-progress, everything else is
// pending.
func DeriveOverallStatus(task *models.Task, assignments []models.TaskAssignment) models.TaskStatus {
	if len(assignments) == 0 {
		return task.Status
	}

	completed := 0
	inProgress := 0
	for _, a := range assignments {
		switch a.IndividualStatus {
		case models.StatusCompleted:
			completed++
		case models.StatusInProgress:
			inProgress++
		}
	}

	if completed == len(assignments) {
		return models.StatusCompleted
	}
	if inProgress > 0 {
		return models.StatusInProgress
	}
	return models.StatusPending
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.taskRepo.FindAll(ctx, filter)
}

func (s *taskService) CreateWithAssignments(ctx context.Context, task *models.Task, departmentID *int, employeeIDs []string) (*models.Task, error) {
	creatorID, err := s.creators.Resolve(ctx, task.CreatorID)
	if err != nil {
		return nil, err
	}
	task.CreatorID = creatorID

	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.TaskType == "" {
		task.TaskType = models.TypeOther
	}
	if !task.Recurring {
		task.ClearRecurrence()
	} else if task.RecurrenceInterval <= 0 {
		task.RecurrenceInterval = 1
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	// Resolve assignees before the insert so a bad department does not
	// leave an orphan task behind.
	assignees, err := s.resolveAssignees(ctx, task, departmentID, employeeIDs)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Store(ctx, task); err != nil {
		return nil, err
	}
	s.fanOut(ctx, task.ID, assignees)

	return task, nil
}

// resolveAssignees picks exactly one fan-out branch: an explicit employee
// list (even when empty — that means "assign to nobody"), else the given
// department's current members, else every USER-role employee.
func (s *taskService) resolveAssignees(ctx context.Context, task *models.Task, departmentID *int, employeeIDs []string) ([]models.Employee, error) {
	var assignees []models.Employee
	seen := map[string]bool{}

	switch {
	case employeeIDs != nil:
		for _, id := range employeeIDs {
			emp, err := s.employeeRepo.FindByID(ctx, id)
			if err != nil {
				log.Printf("[task][assign][skip] employee=%s: %v", id, err)
				continue
			}
			if !seen[emp.ID] {
				seen[emp.ID] = true
				assignees = append(assignees, *emp)
			}
		}
	case departmentID != nil:
		if _, err := s.departmentRepo.FindByID(ctx, *departmentID); err != nil {
			return nil, err
		}
		deptEmployees, err := s.employeeRepo.FindByDepartmentID(ctx, *departmentID)
		if err != nil {
			return nil, err
		}
		assignees = deptEmployees
		task.DepartmentID = departmentID
	default:
		users, err := s.employeeRepo.FindByRole(ctx, models.RoleUser)
		if err != nil {
			return nil, err
		}
		assignees = users
	}
	return assignees, nil
}

func (s *taskService) fanOut(ctx context.Context, taskID int64, assignees []models.Employee) {
	now := time.Now()
	for _, emp := range assignees {
		assignment := &models.TaskAssignment{
			TaskID:           taskID,
			EmployeeID:       emp.ID,
			IndividualStatus: models.StatusPending,
			AssignedAt:       now,
		}
		if err := s.assignmentRepo.Store(ctx, assignment); err != nil {
			log.Printf("[task][assign][skip] task=%d employee=%s: %v", taskID, emp.ID, err)
		}
	}
}

func (s *taskService) UpdateWithAssignments(ctx context.Context, id int64, patch *models.TaskPatch, departmentID *int, employeeIDs []string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(task, patch)
	task.UpdatedAt = time.Now()

	// A department or employee list (even an empty one) means full
	// reassignment: wipe the old fan-out and rebuild from scratch.
	// Resolve the new set before touching the old one so a failed
	// lookup leaves the existing assignments intact.
	if departmentID != nil || employeeIDs != nil {
		task.DepartmentID = nil
		assignees, err := s.resolveAssignees(ctx, task, departmentID, employeeIDs)
		if err != nil {
			return nil, err
		}
		if err := s.assignmentRepo.DeleteByTaskID(ctx, id); err != nil {
			return nil, err
		}
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, err
		}
		s.fanOut(ctx, id, assignees)
		return task, nil
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func applyPatch(task *models.Task, patch *models.TaskPatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.TaskType != nil {
		task.TaskType = *patch.TaskType
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.Location != nil {
		task.Location = *patch.Location
	}
	if patch.Recurring != nil {
		if !*patch.Recurring {
			task.ClearRecurrence()
			return
		}
		task.Recurring = true
	}
	if !task.Recurring {
		return
	}
	if patch.RecurrenceType != nil {
		task.RecurrenceType = *patch.RecurrenceType
	}
	if patch.RecurrenceInterval != nil {
		task.RecurrenceInterval = *patch.RecurrenceInterval
	}
	if task.RecurrenceInterval <= 0 {
		task.RecurrenceInterval = 1
	}
	if patch.RecurrenceEndDate != nil {
		task.RecurrenceEndDate = patch.RecurrenceEndDate
	}
	if patch.RecurringDayOfWeek != nil {
		task.RecurringDayOfWeek = patch.RecurringDayOfWeek
	}
	if patch.RecurringDayOfMonth != nil {
		task.RecurringDayOfMonth = patch.RecurringDayOfMonth
	}
	if patch.SkipWeekends != nil {
		task.SkipWeekends = *patch.SkipWeekends
	}
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	exists, err := s.taskRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return repositories.ErrTaskNotFound
	}
	// assignments first, then the task itself
	if err := s.assignmentRepo.DeleteByTaskID(ctx, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

// UpdateStatus sets the task status directly, bypassing the assignment
// roll-up. Admin override.
func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Status = to
	if to == models.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	if err := s.taskRepo.UpdateStatus(ctx, id, to, task.CompletedAt); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateIndividualStatus moves one employee's assignment to the new status.
// All transitions are allowed, including backwards ones — callers may
// correct mistakes. Timestamps are stamped on the first entry into
// IN_PROGRESS and on every entry into COMPLETED.
func (s *taskService) UpdateIndividualStatus(ctx context.Context, taskID int64, employeeID string, to models.TaskStatus) (*models.TaskAssignment, error) {
	assignment, err := s.assignmentRepo.FindByTaskAndEmployee(ctx, taskID, employeeID)
	if err != nil {
		return nil, err
	}

	s.transition(assignment, to)

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	if err := s.refreshOverallStatus(ctx, taskID); err != nil {
		log.Printf("[task][status][warn] roll-up for task=%d: %v", taskID, err)
	}
	return assignment, nil
}

// SubmitReport sets the report text and status in one step.
func (s *taskService) SubmitReport(ctx context.Context, taskID int64, employeeID, report string, to models.TaskStatus) (*models.TaskAssignment, error) {
	assignment, err := s.assignmentRepo.FindByTaskAndEmployee(ctx, taskID, employeeID)
	if err != nil {
		return nil, err
	}

	assignment.Report = report
	s.transition(assignment, to)

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	if err := s.refreshOverallStatus(ctx, taskID); err != nil {
		log.Printf("[task][report][warn] roll-up for task=%d: %v", taskID, err)
	}
	return assignment, nil
}

func (s *taskService) transition(assignment *models.TaskAssignment, to models.TaskStatus) {
	assignment.IndividualStatus = to
	now := time.Now()
	if to == models.StatusInProgress && assignment.StartedAt == nil {
		assignment.StartedAt = &now
	}
	if to == models.StatusCompleted {
		assignment.CompletedAt = &now
		if assignment.AssignedAt.IsZero() {
			// should never happen; backfill so the record stays consistent
			assignment.AssignedAt = now
		}
	}
}

// refreshOverallStatus recomputes and persists the aggregate status after an
// assignment mutation. With no assignments left there is nothing to derive
// and the stored status stays as is.
func (s *taskService) refreshOverallStatus(ctx context.Context, taskID int64) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	assignments, err := s.assignmentRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}

	newStatus := DeriveOverallStatus(task, assignments)
	completedAt := task.CompletedAt
	if newStatus == models.StatusCompleted && task.Status != models.StatusCompleted {
		now := time.Now()
		completedAt = &now
	}
	return s.taskRepo.UpdateStatus(ctx, taskID, newStatus, completedAt)
}

func (s *taskService) AssignmentsByTask(ctx context.Context, taskID int64) ([]models.TaskAssignment, error) {
	return s.assignmentRepo.FindByTaskID(ctx, taskID)
}

func (s *taskService) AssignmentsByEmployee(ctx context.Context, employeeID string) ([]models.TaskAssignment, error) {
	return s.assignmentRepo.FindByEmployeeID(ctx, employeeID)
}

func (s *taskService) GetTasksDueSoon(ctx context.Context, hoursAhead int) ([]models.Task, error) {
	now := time.Now()
	return s.taskRepo.FindDueBetween(ctx, now, now.Add(time.Duration(hoursAhead)*time.Hour))
}

func (s *taskService) GetOverdueTasks(ctx context.Context) ([]models.Task, error) {
	return s.taskRepo.FindOverdue(ctx, time.Now())
}

func (s *taskService) GetRecentTasks(ctx context.Context, limit int) ([]models.Task, error) {
	return s.taskRepo.FindRecent(ctx, limit)
}

func (s *taskService) GetActiveRecurringByType(ctx context.Context, rtype models.RecurrenceType) ([]models.Task, error) {
	return s.taskRepo.FindActiveRecurringByType(ctx, rtype, time.Now())
}

// CreateUserTask creates a personal task owned by and assigned to the same
// employee.
func (s *taskService) CreateUserTask(ctx context.Context, task *models.Task, employeeID string) (*models.Task, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, err
	}
	task.CreatorID = employeeID
	return s.CreateWithAssignments(ctx, task, nil, []string{employeeID})
}

// DeleteUserTask removes a task, but only for its creator.
func (s *taskService) DeleteUserTask(ctx context.Context, taskID int64, employeeID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.CreatorID != employeeID {
		return ErrNotTaskCreator
	}
	return s.Delete(ctx, taskID)
}

// IsNotFound reports whether err is one of the repository not-found
// sentinels. Handlers use it to pick the HTTP status.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrTaskNotFound) ||
		errors.Is(err, repositories.ErrAssignmentNotFound) ||
		errors.Is(err, repositories.ErrEmployeeNotFound) ||
		errors.Is(err, repositories.ErrDepartmentNotFound) ||
		errors.Is(err, repositories.ErrMachineNotFound)
}

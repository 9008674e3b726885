// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task and for an
// individual assignment. The same enum is used on both levels.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskType string

const (
	TypeMaintenance TaskType = "MAINTENANCE"
	TypeRepair      TaskType = "REPAIR"
	TypeInspection  TaskType = "INSPECTION"
	TypeCleaning    TaskType = "CLEANING"
	TypeMeeting     TaskType = "MEETING"
	TypePersonal    TaskType = "PERSONAL"
	TypeOther       TaskType = "OTHER"
)

// RecurrenceType classifies how often a recurring template fires.
type RecurrenceType string

const (
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
)

// Task represents a unit of work. A task with Recurring=true is a template:
// the recurrence checker spawns concrete (non-recurring) instances from it
// and tracks the last materialized occurrence in NextExecutionDate.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TaskType    TaskType   `json:"task_type"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatorID    string `json:"creator_id"`
	DepartmentID *int   `json:"department_id,omitempty"`
	Location     string `json:"location,omitempty"`

	Recurring           bool           `json:"recurring"`
	RecurrenceType      RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceInterval  int            `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate   *time.Time     `json:"recurrence_end_date,omitempty"`
	RecurringDayOfWeek  *int           `json:"recurring_day_of_week,omitempty"`  // 1=Mon .. 7=Sun
	RecurringDayOfMonth *int           `json:"recurring_day_of_month,omitempty"` // clamped to month length
	SkipWeekends        bool           `json:"skip_weekends"`
	NextExecutionDate   *time.Time     `json:"next_execution_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClearRecurrence resets every recurrence field. Invariant: a non-recurring
// task carries no recurrence state.
func (t *Task) ClearRecurrence() {
	t.Recurring = false
	t.RecurrenceType = ""
	t.RecurrenceInterval = 0
	t.RecurrenceEndDate = nil
	t.RecurringDayOfWeek = nil
	t.RecurringDayOfMonth = nil
	t.SkipWeekends = false
	t.NextExecutionDate = nil
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	TaskType     *TaskType
	Status       *TaskStatus
	CreatorID    *string
	DepartmentID *int
}

// TaskPatch is a field-by-field overlay for updates: nil fields are left
// untouched. Flipping Recurring to false clears the whole recurrence block.
type TaskPatch struct {
	Title       *string
	Description *string
	TaskType    *TaskType
	DueDate     *time.Time
	Location    *string

	Recurring           *bool
	RecurrenceType      *RecurrenceType
	RecurrenceInterval  *int
	RecurrenceEndDate   *time.Time
	RecurringDayOfWeek  *int
	RecurringDayOfMonth *int
	SkipWeekends        *bool
}

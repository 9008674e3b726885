package models

import "time"

// TaskAssignment tracks one employee's personal progress on one task.
// At most one assignment exists per (task, employee) pair.
type TaskAssignment struct {
	ID               int64      `json:"id"`
	TaskID           int64      `json:"task_id"`
	EmployeeID       string     `json:"employee_id"`
	IndividualStatus TaskStatus `json:"individual_status"`
	AssignedAt       time.Time  `json:"assigned_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Report           string     `json:"report,omitempty"`
}

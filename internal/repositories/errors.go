package repositories

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssignmentNotFound = errors.New("task assignment not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrMachineNotFound    = errors.New("machine not found")

	// ErrDuplicateAssignment maps the unique (task_id, employee_id) constraint.
	ErrDuplicateAssignment = errors.New("task already assigned to employee")
)

package models

import "time"

// Machine is a piece of equipment an employee can be responsible for.
type Machine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeeMachine links an employee to a machine they operate.
type EmployeeMachine struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	MachineID  string    `json:"machine_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

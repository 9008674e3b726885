package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Employee is a member of the workforce. The ID is the zero-padded string
// form of EmployeeNumber ("0004"), which is what badges and the UI show.
type Employee struct {
	ID             string     `json:"id"`
	EmployeeNumber int        `json:"employee_number"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	PasswordHash   string     `json:"-"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Role           Role       `json:"role"`
	DepartmentID   *int       `json:"department_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FormatEmployeeID renders an employee number as the canonical string id.
func FormatEmployeeID(number int) string {
	return fmt.Sprintf("%04d", number)
}

// PasswordFromDate builds the default initial password from a birth date
// (ddMMyyyy). Used when an employee is created without an explicit password.
func PasswordFromDate(d time.Time) string {
	return d.Format("02012006")
}

// EmployeePatch is the overlay used by employee updates.
type EmployeePatch struct {
	EmployeeNumber *int
	Name           *string
	Email          *string
	DateOfBirth    *time.Time
	Role           *Role
}

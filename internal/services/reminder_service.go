package services

import (
	"context"
	"log"

	"workdesk/internal/repositories"
)

// ReminderService is the daily sweep behind the reminder trigger: it pulls
// tasks due within the look-ahead window and emails every assigned employee
// that has an address on file.
type ReminderService struct {
	tasks          TaskService
	assignmentRepo repositories.AssignmentRepository
	employeeRepo   repositories.EmployeeRepository
	email          EmailService
}

func NewReminderService(
	tasks TaskService,
	assignmentRepo repositories.AssignmentRepository,
	employeeRepo repositories.EmployeeRepository,
	email EmailService,
) *ReminderService {
	return &ReminderService{
		tasks:          tasks,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		email:          email,
	}
}

// SendDueReminders emails everyone assigned to a task due within hoursAhead.
// Send failures are logged per recipient and never abort the sweep.
func (s *ReminderService) SendDueReminders(ctx context.Context, hoursAhead int) error {
	tasksDueSoon, err := s.tasks.GetTasksDueSoon(ctx, hoursAhead)
	if err != nil {
		return err
	}
	log.Printf("[reminder] %d tasks due within %dh", len(tasksDueSoon), hoursAhead)

	for i := range tasksDueSoon {
		task := &tasksDueSoon[i]
		assignments, err := s.assignmentRepo.FindByTaskID(ctx, task.ID)
		if err != nil {
			log.Printf("[reminder][err] assignments for task=%d: %v", task.ID, err)
			continue
		}
		for _, a := range assignments {
			employee, err := s.employeeRepo.FindByID(ctx, a.EmployeeID)
			if err != nil {
				log.Printf("[reminder][err] employee=%s: %v", a.EmployeeID, err)
				continue
			}
			if employee.Email == "" {
				continue
			}
			if err := s.email.SendTaskReminder(task, employee); err != nil {
				log.Printf("[reminder][err] send to %s for task=%d: %v", employee.Email, task.ID, err)
				continue
			}
			log.Printf("[reminder][sent] task=%d employee=%s", task.ID, employee.ID)
		}
	}
	return nil
}

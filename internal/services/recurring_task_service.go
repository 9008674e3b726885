// internal/services/recurring_task_service.go
package services

import (
	"context"
	"log"
	"time"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

// RecurringTaskService materializes concrete task instances from recurring
// templates. It is driven by an external periodic trigger per cadence; each
// run walks the active templates of that cadence, computes the next
// occurrence and fires when the template has not already covered it.
type RecurringTaskService struct {
	taskRepo       repositories.TaskRepository
	assignmentRepo repositories.AssignmentRepository
	tasks          TaskService
	holidays       *HolidayService

	now func() time.Time
}

func NewRecurringTaskService(
	taskRepo repositories.TaskRepository,
	assignmentRepo repositories.AssignmentRepository,
	tasks TaskService,
	holidays *HolidayService,
) *RecurringTaskService {
	return &RecurringTaskService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		tasks:          tasks,
		holidays:       holidays,
		now:            time.Now,
	}
}

// ProcessCadence runs one check for the given cadence. A failure on one
// template is logged and never blocks the rest of the batch.
func (s *RecurringTaskService) ProcessCadence(ctx context.Context, cadence models.RecurrenceType) error {
	now := s.now()
	templates, err := s.taskRepo.FindActiveRecurringByType(ctx, cadence, now)
	if err != nil {
		return err
	}
	log.Printf("[recurring][%s] checking %d active templates", cadence, len(templates))

	for i := range templates {
		template := &templates[i]
		nextDate := s.ComputeNextOccurrence(template, now)

		if !ShouldFire(template, nextDate) {
			continue
		}
		if err := s.fire(ctx, template, nextDate); err != nil {
			log.Printf("[recurring][%s][err] template=%d %q: %v", cadence, template.ID, template.Title, err)
		}
	}
	return nil
}

// ComputeNextOccurrence computes the next due date for a template from the
// given base date.
//
// WEEKLY: without a target weekday the next occurrence is exactly one week
// out. With one, the base advances by the interval in weeks and then walks
// forward day by day (at most six steps) until the weekday matches.
//
// MONTHLY: the base advances by the interval in months with day-of-month
// clamping (Jan 31 + 1 month = Feb 28/29). A target day-of-month is clamped
// to the month's length, and with SkipWeekends set the result is pushed to
// the next business day. Without a target day the month-advanced date is
// used as is.
func (s *RecurringTaskService) ComputeNextOccurrence(template *models.Task, baseDate time.Time) time.Time {
	switch template.RecurrenceType {
	case models.RecurrenceWeekly:
		return s.nextWeeklyDate(template, baseDate)
	case models.RecurrenceMonthly:
		return s.nextMonthlyDate(template, baseDate)
	}
	return baseDate
}

func (s *RecurringTaskService) nextWeeklyDate(template *models.Task, baseDate time.Time) time.Time {
	if template.RecurringDayOfWeek == nil {
		return baseDate.AddDate(0, 0, 7)
	}

	interval := template.RecurrenceInterval
	if interval <= 0 {
		interval = 1
	}
	next := baseDate.AddDate(0, 0, 7*interval)

	target := isoWeekday(*template.RecurringDayOfWeek)
	for next.Weekday() != target {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *RecurringTaskService) nextMonthlyDate(template *models.Task, baseDate time.Time) time.Time {
	interval := template.RecurrenceInterval
	if interval <= 0 {
		interval = 1
	}
	next := addMonthsClamped(baseDate, interval)

	if template.RecurringDayOfMonth != nil {
		day := *template.RecurringDayOfMonth
		if max := daysInMonth(next.Year(), next.Month()); day > max {
			day = max
		}
		if day < 1 {
			day = 1
		}
		next = time.Date(next.Year(), next.Month(), day,
			next.Hour(), next.Minute(), next.Second(), next.Nanosecond(), next.Location())

		if template.SkipWeekends && s.holidays.IsWeekendOrHoliday(next) {
			next = s.holidays.NextBusinessDay(next)
		}
	}
	return next
}

// ShouldFire decides whether a template must spawn an instance for the
// candidate date. It fires on the very first run (no bookkeeping yet) and
// whenever the last fired occurrence is more than one day behind the
// candidate. The one-day tolerance keeps a re-run within the same occurrence
// window from firing twice.
func ShouldFire(template *models.Task, candidate time.Time) bool {
	if template.NextExecutionDate == nil {
		return true
	}
	return template.NextExecutionDate.Before(candidate.AddDate(0, 0, -1))
}

// fire builds a non-recurring instance from the template, fans it out to the
// template's current assignee set and advances the template's bookkeeping.
// Instance creation and bookkeeping are two independent writes: a crash in
// between can cause one duplicate fire on the next run, which the tolerance
// window accepts.
func (s *RecurringTaskService) fire(ctx context.Context, template *models.Task, dueDate time.Time) error {
	instance := &models.Task{
		Title:       template.Title,
		Description: template.Description,
		TaskType:    template.TaskType,
		Status:      models.StatusPending,
		DueDate:     dueDate,
		CreatorID:   template.CreatorID,
		Location:    template.Location,
		Recurring:   false,
	}

	var departmentID *int
	var employeeIDs []string
	if template.DepartmentID != nil {
		departmentID = template.DepartmentID
	} else {
		assignments, err := s.assignmentRepo.FindByTaskID(ctx, template.ID)
		if err != nil {
			return err
		}
		employeeIDs = make([]string, 0, len(assignments))
		for _, a := range assignments {
			employeeIDs = append(employeeIDs, a.EmployeeID)
		}
	}

	created, err := s.tasks.CreateWithAssignments(ctx, instance, departmentID, employeeIDs)
	if err != nil {
		return err
	}
	log.Printf("[recurring][fire] template=%d spawned instance=%d due=%s",
		template.ID, created.ID, dueDate.Format("2006-01-02"))

	template.NextExecutionDate = &dueDate
	template.UpdatedAt = s.now()
	return s.taskRepo.Update(ctx, template)
}

// isoWeekday maps 1..7 (Mon..Sun) onto time.Weekday.
func isoWeekday(day int) time.Weekday {
	if day == 7 {
		return time.Sunday
	}
	return time.Weekday(day)
}

// addMonthsClamped advances by whole months, clamping the day to the target
// month's length instead of letting Go's AddDate roll over (Jan 31 + 1 month
// must be the end of February, not March 2).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	month = time.Month((m-1)%12 + 1)

	if max := daysInMonth(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// first of next month, rolled back a day
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

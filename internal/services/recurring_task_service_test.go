package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdesk/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func newTestRecurringService(now time.Time) (*RecurringTaskService, TaskService, *fakeTaskRepo, *fakeAssignmentRepo) {
	taskRepo := newFakeTaskRepo()
	assignmentRepo := newFakeAssignmentRepo()
	employeeRepo := newFakeEmployeeRepo(testEmployees()...)
	departmentRepo := newFakeDepartmentRepo(models.Department{ID: 1, Name: "Production"})
	tasks := NewTaskService(taskRepo, assignmentRepo, employeeRepo, departmentRepo, NewCreatorResolver(employeeRepo))

	svc := NewRecurringTaskService(taskRepo, assignmentRepo, tasks, NewHolidayService())
	svc.now = func() time.Time { return now }
	return svc, tasks, taskRepo, assignmentRepo
}

func TestComputeNextOccurrence_WeeklyNoTargetWeekday(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 5) // Monday

	template := &models.Task{
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 3, // ignored without a target weekday
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, date(2026, time.January, 12), next, "exactly one week out")
}

func TestComputeNextOccurrence_WeeklyTargetWeekday(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 5) // Monday

	template := &models.Task{
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurringDayOfWeek: intPtr(5), // Friday
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, time.Friday, next.Weekday())
	assert.Equal(t, date(2026, time.January, 16), next)
}

func TestComputeNextOccurrence_WeeklySundayIsSeven(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 5) // Monday

	template := &models.Task{
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurringDayOfWeek: intPtr(7),
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, time.Sunday, next.Weekday())
}

func TestComputeNextOccurrence_WeeklyInterval(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 5) // Monday

	template := &models.Task{
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 2,
		RecurringDayOfWeek: intPtr(1), // Monday
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, date(2026, time.January, 19), next, "two weeks out, already a Monday")
}

func TestComputeNextOccurrence_MonthlyClampsShortMonth(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 31)

	template := &models.Task{
		RecurrenceType:      models.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurringDayOfMonth: intPtr(31),
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, 2026, next.Year())
	assert.Equal(t, time.February, next.Month())
	assert.Equal(t, 28, next.Day(), "January 31 plus one month lands on the end of February")
}

func TestComputeNextOccurrence_MonthlyLeapFebruary(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2028, time.January, 31)

	template := &models.Task{
		RecurrenceType:      models.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurringDayOfMonth: intPtr(31),
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, 29, next.Day())
	assert.Equal(t, time.February, next.Month())
}

func TestComputeNextOccurrence_MonthlySkipWeekends(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.January, 31)

	template := &models.Task{
		RecurrenceType:      models.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurringDayOfMonth: intPtr(31),
		SkipWeekends:        true,
	}
	// 2026-02-28 is a Saturday, so the due date moves to Monday March 2.
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, time.March, next.Month())
	assert.Equal(t, 2, next.Day())
	assert.Equal(t, time.Monday, next.Weekday())
}

func TestComputeNextOccurrence_MonthlyYearRollover(t *testing.T) {
	svc, _, _, _ := newTestRecurringService(time.Now())
	base := date(2026, time.December, 15)

	template := &models.Task{
		RecurrenceType:      models.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurringDayOfMonth: intPtr(15),
	}
	next := svc.ComputeNextOccurrence(template, base)
	assert.Equal(t, 2027, next.Year())
	assert.Equal(t, time.January, next.Month())
	assert.Equal(t, 15, next.Day())
}

func TestShouldFire(t *testing.T) {
	candidate := date(2026, time.March, 20)

	t.Run("always fires without bookkeeping", func(t *testing.T) {
		assert.True(t, ShouldFire(&models.Task{}, candidate))
	})
	t.Run("does not refire within the tolerance window", func(t *testing.T) {
		last := candidate.AddDate(0, 0, -1)
		assert.False(t, ShouldFire(&models.Task{NextExecutionDate: &last}, candidate))
	})
	t.Run("fires when the last occurrence is stale", func(t *testing.T) {
		last := candidate.AddDate(0, 0, -2)
		assert.True(t, ShouldFire(&models.Task{NextExecutionDate: &last}, candidate))
	})
	t.Run("does not fire for a future occurrence", func(t *testing.T) {
		last := candidate.AddDate(0, 0, 5)
		assert.False(t, ShouldFire(&models.Task{NextExecutionDate: &last}, candidate))
	})
}

func TestProcessCadence_SpawnsInstanceAndAdvancesTemplate(t *testing.T) {
	now := date(2026, time.January, 5) // Monday
	svc, tasks, taskRepo, assignmentRepo := newTestRecurringService(now)
	ctx := context.Background()

	template := &models.Task{
		Title:              "Weekly press inspection",
		TaskType:           models.TypeInspection,
		DueDate:            now,
		Recurring:          true,
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurringDayOfWeek: intPtr(5),
	}
	created, err := tasks.CreateWithAssignments(ctx, template, nil, []string{"0002", "0003"})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessCadence(ctx, models.RecurrenceWeekly))

	// the template now records the spawned occurrence
	stored, err := taskRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.NextExecutionDate)
	assert.Equal(t, date(2026, time.January, 16), *stored.NextExecutionDate)

	// exactly one new non-recurring instance, fanned out to the same people
	all, err := taskRepo.FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	instance := all[1]
	assert.False(t, instance.Recurring)
	assert.Equal(t, models.StatusPending, instance.Status)
	assert.Equal(t, date(2026, time.January, 16), instance.DueDate)

	assignments, err := assignmentRepo.FindByTaskID(ctx, instance.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	// a second run inside the tolerance window must not duplicate
	require.NoError(t, svc.ProcessCadence(ctx, models.RecurrenceWeekly))
	all, err = taskRepo.FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProcessCadence_DepartmentTemplateUsesCurrentMembers(t *testing.T) {
	now := date(2026, time.January, 15)
	svc, tasks, taskRepo, assignmentRepo := newTestRecurringService(now)
	ctx := context.Background()

	template := &models.Task{
		Title:               "Monthly stock count",
		TaskType:            models.TypeMaintenance,
		DueDate:             now,
		Recurring:           true,
		RecurrenceType:      models.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurringDayOfMonth: intPtr(15),
	}
	created, err := tasks.CreateWithAssignments(ctx, template, intPtr(1), nil)
	require.NoError(t, err)
	require.NotNil(t, created.DepartmentID)

	require.NoError(t, svc.ProcessCadence(ctx, models.RecurrenceMonthly))

	all, err := taskRepo.FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	instance := all[1]
	require.NotNil(t, instance.DepartmentID)
	assert.Equal(t, 1, *instance.DepartmentID)

	assignments, err := assignmentRepo.FindByTaskID(ctx, instance.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2, "department members at fire time")
}

func TestProcessCadence_ExpiredTemplatesIgnored(t *testing.T) {
	now := date(2026, time.June, 1)
	svc, tasks, taskRepo, _ := newTestRecurringService(now)
	ctx := context.Background()

	end := date(2026, time.May, 1)
	template := &models.Task{
		Title:              "Retired weekly round",
		TaskType:           models.TypeInspection,
		DueDate:            now,
		Recurring:          true,
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurrenceEndDate:  &end,
	}
	_, err := tasks.CreateWithAssignments(ctx, template, nil, []string{"0002"})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessCadence(ctx, models.RecurrenceWeekly))

	all, err := taskRepo.FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "an ended template spawns nothing")
}

func TestProcessCadence_OneBadTemplateDoesNotBlockTheRest(t *testing.T) {
	now := date(2026, time.January, 5)
	svc, tasks, taskRepo, _ := newTestRecurringService(now)
	ctx := context.Background()

	// first template points at a department that no longer exists
	broken := &models.Task{
		Title:              "Broken template",
		TaskType:           models.TypeInspection,
		DueDate:            now,
		Recurring:          true,
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
	}
	createdBroken, err := tasks.CreateWithAssignments(ctx, broken, intPtr(1), nil)
	require.NoError(t, err)

	healthy := &models.Task{
		Title:              "Healthy template",
		TaskType:           models.TypeCleaning,
		DueDate:            now,
		Recurring:          true,
		RecurrenceType:     models.RecurrenceWeekly,
		RecurrenceInterval: 1,
	}
	_, err = tasks.CreateWithAssignments(ctx, healthy, nil, []string{"0002"})
	require.NoError(t, err)

	require.NotNil(t, createdBroken.DepartmentID)

	// rebuild the task service against an emptied department repo, so the
	// broken template's fan-out now fails at fire time
	employeeRepo := newFakeEmployeeRepo(testEmployees()...)
	rebuilt := NewTaskService(taskRepo, newFakeAssignmentRepo(), employeeRepo, newFakeDepartmentRepo(), NewCreatorResolver(employeeRepo))
	svc.tasks = rebuilt

	require.NoError(t, svc.ProcessCadence(ctx, models.RecurrenceWeekly), "per-template failures are isolated")

	all, err := taskRepo.FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "the healthy template still fired")
}

package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"workdesk/internal/models"
	"workdesk/internal/repositories"
)

// In-memory repository fakes used across the service tests.

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64

	failStore  error
	failUpdate error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}}
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	if r.failStore != nil {
		return r.failStore
	}
	r.nextID++
	task.ID = r.nextID
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.TaskType != nil && t.TaskType != *filter.TaskType {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.DepartmentID != nil && (t.DepartmentID == nil || *t.DepartmentID != *filter.DepartmentID) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return repositories.ErrTaskNotFound
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.tasks[id]
	return ok, nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus, completedAt *time.Time) error {
	t, ok := r.tasks[id]
	if !ok {
		return repositories.ErrTaskNotFound
	}
	t.Status = to
	t.CompletedAt = completedAt
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTaskRepo) FindActiveRecurringByType(ctx context.Context, rtype models.RecurrenceType, now time.Time) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if !t.Recurring || t.RecurrenceType != rtype {
			continue
		}
		if t.RecurrenceEndDate != nil && !t.RecurrenceEndDate.After(now) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.Recurring || t.Status == models.StatusCompleted {
			continue
		}
		if t.DueDate.Before(from) || t.DueDate.After(to) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeTaskRepo) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.Recurring || t.Status == models.StatusCompleted {
			continue
		}
		if t.DueDate.Before(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindRecent(ctx context.Context, limit int) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTaskRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.tasks)), nil
}

func (r *fakeTaskRepo) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeTaskRepo) CountByType(ctx context.Context, taskType models.TaskType) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.TaskType == taskType {
			n++
		}
	}
	return n, nil
}

type fakeAssignmentRepo struct {
	assignments map[int64]*models.TaskAssignment
	nextID      int64
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[int64]*models.TaskAssignment{}}
}

func (r *fakeAssignmentRepo) Store(ctx context.Context, a *models.TaskAssignment) error {
	for _, cur := range r.assignments {
		if cur.TaskID == a.TaskID && cur.EmployeeID == a.EmployeeID {
			return repositories.ErrDuplicateAssignment
		}
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.assignments[a.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) FindByID(ctx context.Context, id int64) (*models.TaskAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repositories.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) FindByTaskID(ctx context.Context, taskID int64) ([]models.TaskAssignment, error) {
	var out []models.TaskAssignment
	for _, a := range r.assignments {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) FindByEmployeeID(ctx context.Context, employeeID string) ([]models.TaskAssignment, error) {
	var out []models.TaskAssignment
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) FindByTaskAndEmployee(ctx context.Context, taskID int64, employeeID string) (*models.TaskAssignment, error) {
	for _, a := range r.assignments {
		if a.TaskID == taskID && a.EmployeeID == employeeID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, a *models.TaskAssignment) error {
	if _, ok := r.assignments[a.ID]; !ok {
		return repositories.ErrAssignmentNotFound
	}
	cp := *a
	r.assignments[a.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) DeleteByID(ctx context.Context, id int64) error {
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) DeleteByTaskID(ctx context.Context, taskID int64) error {
	for id, a := range r.assignments {
		if a.TaskID == taskID {
			delete(r.assignments, id)
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	for id, a := range r.assignments {
		if a.EmployeeID == employeeID {
			delete(r.assignments, id)
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) CountByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	var n int64
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAssignmentRepo) CountByEmployeeAndStatus(ctx context.Context, employeeID string, status models.TaskStatus) (int64, error) {
	var n int64
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && a.IndividualStatus == status {
			n++
		}
	}
	return n, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*models.Employee
}

func newFakeEmployeeRepo(employees ...models.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: map[string]*models.Employee{}}
	for i := range employees {
		cp := employees[i]
		r.employees[cp.ID] = &cp
	}
	return r
}

func (r *fakeEmployeeRepo) Store(ctx context.Context, e *models.Employee) error {
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, repositories.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) FindByNumber(ctx context.Context, number int) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.EmployeeNumber == number {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) FindAll(ctx context.Context) ([]models.Employee, error) {
	return r.filter(func(*models.Employee) bool { return true }), nil
}

func (r *fakeEmployeeRepo) FindByDepartmentID(ctx context.Context, departmentID int) ([]models.Employee, error) {
	return r.filter(func(e *models.Employee) bool {
		return e.DepartmentID != nil && *e.DepartmentID == departmentID
	}), nil
}

func (r *fakeEmployeeRepo) FindByRole(ctx context.Context, role models.Role) ([]models.Employee, error) {
	return r.filter(func(e *models.Employee) bool { return e.Role == role }), nil
}

func (r *fakeEmployeeRepo) filter(keep func(*models.Employee) bool) []models.Employee {
	var out []models.Employee
	for _, e := range r.employees {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	if _, ok := r.employees[e.ID]; !ok {
		return repositories.ErrEmployeeNotFound
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, id string) error {
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) ExistsByNumber(ctx context.Context, number int) (bool, error) {
	_, err := r.FindByNumber(ctx, number)
	if errors.Is(err, repositories.ErrEmployeeNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeEmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, e := range r.employees {
		if e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) MaxEmployeeNumber(ctx context.Context) (int, error) {
	max := 0
	for _, e := range r.employees {
		if e.EmployeeNumber > max {
			max = e.EmployeeNumber
		}
	}
	return max, nil
}

func (r *fakeEmployeeRepo) ClearDepartment(ctx context.Context, departmentID int) error {
	for _, e := range r.employees {
		if e.DepartmentID != nil && *e.DepartmentID == departmentID {
			e.DepartmentID = nil
		}
	}
	return nil
}

func (r *fakeEmployeeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.employees)), nil
}

type fakeDepartmentRepo struct {
	departments map[int]*models.Department
	nextID      int
}

func newFakeDepartmentRepo(departments ...models.Department) *fakeDepartmentRepo {
	r := &fakeDepartmentRepo{departments: map[int]*models.Department{}}
	for i := range departments {
		cp := departments[i]
		r.departments[cp.ID] = &cp
		if cp.ID > r.nextID {
			r.nextID = cp.ID
		}
	}
	return r
}

func (r *fakeDepartmentRepo) Store(ctx context.Context, d *models.Department) error {
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.departments[d.ID] = &cp
	return nil
}

func (r *fakeDepartmentRepo) FindByID(ctx context.Context, id int) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, repositories.ErrDepartmentNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDepartmentRepo) FindAll(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range r.departments {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDepartmentRepo) Update(ctx context.Context, d *models.Department) error {
	if _, ok := r.departments[d.ID]; !ok {
		return repositories.ErrDepartmentNotFound
	}
	cp := *d
	r.departments[d.ID] = &cp
	return nil
}

func (r *fakeDepartmentRepo) Delete(ctx context.Context, id int) error {
	delete(r.departments, id)
	return nil
}

type fakeMachineRepo struct {
	machines map[string]*models.Machine
	links    map[string][]string // employeeID -> machineIDs
}

func newFakeMachineRepo(machines ...models.Machine) *fakeMachineRepo {
	r := &fakeMachineRepo{machines: map[string]*models.Machine{}, links: map[string][]string{}}
	for i := range machines {
		cp := machines[i]
		r.machines[cp.ID] = &cp
	}
	return r
}

func (r *fakeMachineRepo) Store(ctx context.Context, m *models.Machine) error {
	cp := *m
	r.machines[m.ID] = &cp
	return nil
}

func (r *fakeMachineRepo) FindByID(ctx context.Context, id string) (*models.Machine, error) {
	m, ok := r.machines[id]
	if !ok {
		return nil, repositories.ErrMachineNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMachineRepo) FindAll(ctx context.Context) ([]models.Machine, error) {
	var out []models.Machine
	for _, m := range r.machines {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMachineRepo) Update(ctx context.Context, m *models.Machine) error {
	if _, ok := r.machines[m.ID]; !ok {
		return repositories.ErrMachineNotFound
	}
	cp := *m
	r.machines[m.ID] = &cp
	return nil
}

func (r *fakeMachineRepo) Delete(ctx context.Context, id string) error {
	delete(r.machines, id)
	return nil
}

func (r *fakeMachineRepo) AssignToEmployee(ctx context.Context, employeeID, machineID string) error {
	r.links[employeeID] = append(r.links[employeeID], machineID)
	return nil
}

func (r *fakeMachineRepo) MachineIDsByEmployee(ctx context.Context, employeeID string) ([]string, error) {
	return append([]string(nil), r.links[employeeID]...), nil
}

func (r *fakeMachineRepo) IsAssigned(ctx context.Context, employeeID, machineID string) (bool, error) {
	for _, id := range r.links[employeeID] {
		if id == machineID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMachineRepo) UnassignAllFromEmployee(ctx context.Context, employeeID string) error {
	delete(r.links, employeeID)
	return nil
}

func (r *fakeMachineRepo) UnassignAllFromMachine(ctx context.Context, machineID string) error {
	for emp, ids := range r.links {
		var keep []string
		for _, id := range ids {
			if id != machineID {
				keep = append(keep, id)
			}
		}
		r.links[emp] = keep
	}
	return nil
}

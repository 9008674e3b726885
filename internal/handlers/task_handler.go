package handlers

import (
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/internal/authz"
	"workdesk/internal/models"
	"workdesk/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// telegram notifications for the shared work chat; optional
	tg       *services.TelegramService
	tgChatID int64
}

func NewTaskHandler(service services.TaskService, tg *services.TelegramService, tgChatID int64) *TaskHandler {
	return &TaskHandler{service: service, tg: tg, tgChatID: tgChatID}
}

// taskRequest is the create payload. EmployeeIDs keeps its nil/empty
// distinction from JSON: an absent field stays nil (fall through to the
// department or the all-users fan-out), an explicit [] means assign to
// nobody.
type taskRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	TaskType    models.TaskType `json:"task_type"`
	DueDate     string          `json:"due_date" binding:"required"` // RFC3339
	Location    string          `json:"location"`

	Recurring           bool                  `json:"recurring"`
	RecurrenceType      models.RecurrenceType `json:"recurrence_type"`
	RecurrenceInterval  int                   `json:"recurrence_interval"`
	RecurrenceEndDate   *string               `json:"recurrence_end_date"` // RFC3339
	RecurringDayOfWeek  *int                  `json:"recurring_day_of_week"`
	RecurringDayOfMonth *int                  `json:"recurring_day_of_month"`
	SkipWeekends        bool                  `json:"skip_weekends"`

	DepartmentID *int     `json:"department_id"`
	EmployeeIDs  []string `json:"employee_ids"`
}

// POST /tasks (admin)
func (h *TaskHandler) Create(c *gin.Context) {
	callerID, role := callerIdentity(c)
	log.Printf("[task][create] call by %s role=%s", callerID, role)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		log.Printf("[task][create][err] invalid due_date=%q: %v", req.DueDate, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
		return
	}

	task := &models.Task{
		Title:               req.Title,
		Description:         req.Description,
		TaskType:            req.TaskType,
		DueDate:             due,
		Location:            req.Location,
		CreatorID:           callerID,
		Recurring:           req.Recurring,
		RecurrenceType:      req.RecurrenceType,
		RecurrenceInterval:  req.RecurrenceInterval,
		RecurringDayOfWeek:  req.RecurringDayOfWeek,
		RecurringDayOfMonth: req.RecurringDayOfMonth,
		SkipWeekends:        req.SkipWeekends,
	}
	if req.RecurrenceEndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.RecurrenceEndDate)
		if err != nil {
			log.Printf("[task][create][err] invalid recurrence_end_date=%q: %v", *req.RecurrenceEndDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence_end_date (RFC3339)"})
			return
		}
		task.RecurrenceEndDate = &end
	}
	if req.Recurring && req.RecurrenceType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recurrence_type required for recurring tasks"})
		return
	}

	created, err := h.service.CreateWithAssignments(c.Request.Context(), task, req.DepartmentID, req.EmployeeIDs)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		respondServiceError(c, err, "failed to create task")
		return
	}
	log.Printf("[task][create][ok] id=%d title=%q recurring=%v", created.ID, created.Title, created.Recurring)
	c.JSON(http.StatusCreated, created)

	h.notifyChat("New task", created)
}

// GET /tasks
func (h *TaskHandler) GetAll(c *gin.Context) {
	var filter models.TaskFilter
	if v, ok := c.GetQuery("task_type"); ok {
		tt := models.TaskType(v)
		filter.TaskType = &tt
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("creator_id"); ok {
		cid := v
		filter.CreatorID = &cid
	}
	if v, ok := c.GetQuery("department_id"); ok {
		if id, err := strconv.Atoi(v); err == nil {
			filter.DepartmentID = &id
		} else {
			log.Printf("[task][list][warn] bad department_id=%q: %v", v, err)
		}
	}

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /tasks/:id (admin)
func (h *TaskHandler) Update(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	log.Printf("[task][update] call by %s role=%s id=%d", callerID, role, id)

	var req struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		TaskType    *models.TaskType `json:"task_type"`
		DueDate     *string          `json:"due_date"` // RFC3339
		Location    *string          `json:"location"`

		Recurring           *bool                  `json:"recurring"`
		RecurrenceType      *models.RecurrenceType `json:"recurrence_type"`
		RecurrenceInterval  *int                   `json:"recurrence_interval"`
		RecurrenceEndDate   *string                `json:"recurrence_end_date"`
		RecurringDayOfWeek  *int                   `json:"recurring_day_of_week"`
		RecurringDayOfMonth *int                   `json:"recurring_day_of_month"`
		SkipWeekends        *bool                  `json:"skip_weekends"`

		DepartmentID *int     `json:"department_id"`
		EmployeeIDs  []string `json:"employee_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := &models.TaskPatch{
		Title:               req.Title,
		Description:         req.Description,
		TaskType:            req.TaskType,
		Location:            req.Location,
		Recurring:           req.Recurring,
		RecurrenceType:      req.RecurrenceType,
		RecurrenceInterval:  req.RecurrenceInterval,
		RecurringDayOfWeek:  req.RecurringDayOfWeek,
		RecurringDayOfMonth: req.RecurringDayOfMonth,
		SkipWeekends:        req.SkipWeekends,
	}
	if req.DueDate != nil {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		patch.DueDate = &t
	}
	if req.RecurrenceEndDate != nil {
		t, err := time.Parse(time.RFC3339, *req.RecurrenceEndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence_end_date (RFC3339)"})
			return
		}
		patch.RecurrenceEndDate = &t
	}

	updated, err := h.service.UpdateWithAssignments(c.Request.Context(), id, patch, req.DepartmentID, req.EmployeeIDs)
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to update task")
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)

	h.notifyChat("Task updated", updated)
}

// DELETE /tasks/:id (admin)
func (h *TaskHandler) Delete(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	log.Printf("[task][delete] call by %s role=%s id=%d", callerID, role, id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to delete task")
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// POST /tasks/:id/status { "to": "COMPLETED" } (admin override)
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var body struct {
		To models.TaskStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.To.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		log.Printf("[task][status][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to update status")
		return
	}
	log.Printf("[task][status][ok] id=%d new=%q", id, body.To)
	c.JSON(http.StatusOK, updated)
}

// GET /tasks/:id/assignments
func (h *TaskHandler) Assignments(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	assignments, err := h.service.AssignmentsByTask(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][assignments][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// GET /tasks/my — assignments of the calling employee
func (h *TaskHandler) MyAssignments(c *gin.Context) {
	callerID, _ := callerIdentity(c)
	assignments, err := h.service.AssignmentsByEmployee(c.Request.Context(), callerID)
	if err != nil {
		log.Printf("[task][my][err] employee=%s: %v", callerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// POST /tasks/:id/my-status { "to": "IN_PROGRESS", "employee_id": "0004" }
// employee_id is optional and admin-only; everyone else acts on their own
// assignment.
func (h *TaskHandler) UpdateIndividualStatus(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var body struct {
		To         models.TaskStatus `json:"to" binding:"required"`
		EmployeeID string            `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.To.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	target := body.EmployeeID
	if target == "" {
		target = callerID
	}
	if !authz.CanActFor(role, callerID, target) {
		log.Printf("[task][my-status][deny] caller=%s target=%s", callerID, target)
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another employee's assignment"})
		return
	}

	assignment, err := h.service.UpdateIndividualStatus(c.Request.Context(), id, target, body.To)
	if err != nil {
		log.Printf("[task][my-status][err] task=%d employee=%s: %v", id, target, err)
		respondServiceError(c, err, "failed to update assignment status")
		return
	}
	log.Printf("[task][my-status][ok] task=%d employee=%s new=%q", id, target, body.To)
	c.JSON(http.StatusOK, assignment)
}

// POST /tasks/:id/report { "report": "...", "to": "COMPLETED" }
func (h *TaskHandler) SubmitReport(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var body struct {
		Report     string            `json:"report" binding:"required"`
		To         models.TaskStatus `json:"to"`
		EmployeeID string            `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.To == "" {
		body.To = models.StatusCompleted
	}
	if !body.To.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	target := body.EmployeeID
	if target == "" {
		target = callerID
	}
	if !authz.CanActFor(role, callerID, target) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot report for another employee"})
		return
	}

	assignment, err := h.service.SubmitReport(c.Request.Context(), id, target, body.Report, body.To)
	if err != nil {
		log.Printf("[task][report][err] task=%d employee=%s: %v", id, target, err)
		respondServiceError(c, err, "failed to submit report")
		return
	}
	log.Printf("[task][report][ok] task=%d employee=%s", id, target)
	c.JSON(http.StatusOK, assignment)
}

// POST /tasks/personal — a task owned by and assigned to the caller
func (h *TaskHandler) CreatePersonal(c *gin.Context) {
	callerID, _ := callerIdentity(c)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	due, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		TaskType:    models.TypePersonal,
		DueDate:     due,
		Location:    req.Location,
	}
	created, err := h.service.CreateUserTask(c.Request.Context(), task, callerID)
	if err != nil {
		log.Printf("[task][personal][err] employee=%s: %v", callerID, err)
		respondServiceError(c, err, "failed to create task")
		return
	}
	log.Printf("[task][personal][ok] id=%d employee=%s", created.ID, callerID)
	c.JSON(http.StatusCreated, created)
}

// DELETE /tasks/personal/:id — creator only
func (h *TaskHandler) DeletePersonal(c *gin.Context) {
	callerID, _ := callerIdentity(c)
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUserTask(c.Request.Context(), id, callerID); err != nil {
		if errors.Is(err, services.ErrNotTaskCreator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the creator can delete this task"})
			return
		}
		log.Printf("[task][personal-delete][err] id=%d employee=%s: %v", id, callerID, err)
		respondServiceError(c, err, "failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) notifyChat(prefix string, t *models.Task) {
	if h.tg == nil || h.tgChatID == 0 || t == nil {
		return
	}
	msg := fmt.Sprintf("%s\n• <b>%s</b>\n• Type: <code>%s</code>\n• Due: <code>%s</code>",
		prefix, html.EscapeString(t.Title), t.TaskType, t.DueDate.Format("2006-01-02 15:04"))
	if err := h.tg.SendMessage(h.tgChatID, msg); err != nil {
		log.Printf("[task][notify][skip] %v", err)
	}
}

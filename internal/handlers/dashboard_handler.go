package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workdesk/internal/authz"
	"workdesk/internal/models"
	"workdesk/internal/repositories"
	"workdesk/internal/services"
)

// DashboardHandler serves the aggregate views the admin UI renders on its
// landing page.
type DashboardHandler struct {
	taskRepo       repositories.TaskRepository
	assignmentRepo repositories.AssignmentRepository
	employeeRepo   repositories.EmployeeRepository
	tasks          services.TaskService
}

func NewDashboardHandler(
	taskRepo repositories.TaskRepository,
	assignmentRepo repositories.AssignmentRepository,
	employeeRepo repositories.EmployeeRepository,
	tasks services.TaskService,
) *DashboardHandler {
	return &DashboardHandler{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		tasks:          tasks,
	}
}

// GET /dashboard/summary (admin)
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.taskRepo.Count(ctx)
	if err != nil {
		log.Printf("[dashboard][summary][err] count tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	byStatus := gin.H{}
	for _, st := range []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted} {
		n, err := h.taskRepo.CountByStatus(ctx, st)
		if err != nil {
			log.Printf("[dashboard][summary][err] count status=%s: %v", st, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
			return
		}
		byStatus[string(st)] = n
	}

	byType := gin.H{}
	for _, tt := range []models.TaskType{
		models.TypeMaintenance, models.TypeRepair, models.TypeInspection,
		models.TypeCleaning, models.TypeMeeting, models.TypePersonal, models.TypeOther,
	} {
		n, err := h.taskRepo.CountByType(ctx, tt)
		if err != nil {
			log.Printf("[dashboard][summary][err] count type=%s: %v", tt, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
			return
		}
		byType[string(tt)] = n
	}

	employeeCount, err := h.employeeRepo.Count(ctx)
	if err != nil {
		log.Printf("[dashboard][summary][err] count employees: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	overdue, err := h.tasks.GetOverdueTasks(ctx)
	if err != nil {
		log.Printf("[dashboard][summary][err] overdue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_tasks":     total,
		"tasks_by_status": byStatus,
		"tasks_by_type":   byType,
		"employees":       employeeCount,
		"overdue":         len(overdue),
	})
}

// GET /dashboard/recent?limit=10 (admin)
func (h *DashboardHandler) Recent(c *gin.Context) {
	limit := 10
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	tasks, err := h.tasks.GetRecentTasks(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[dashboard][recent][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve recent tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /dashboard/due-soon?hours=72 (admin)
func (h *DashboardHandler) DueSoon(c *gin.Context) {
	hours := 72
	if v, ok := c.GetQuery("hours"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	tasks, err := h.tasks.GetTasksDueSoon(c.Request.Context(), hours)
	if err != nil {
		log.Printf("[dashboard][due-soon][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve due tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /dashboard/overdue (admin)
func (h *DashboardHandler) Overdue(c *gin.Context) {
	tasks, err := h.tasks.GetOverdueTasks(c.Request.Context())
	if err != nil {
		log.Printf("[dashboard][overdue][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve overdue tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /dashboard/employees/:id — per-employee workload; self or admin
func (h *DashboardHandler) EmployeeStats(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id := c.Param("id")
	if !authz.CanActFor(role, callerID, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	ctx := c.Request.Context()
	total, err := h.assignmentRepo.CountByEmployeeID(ctx, id)
	if err != nil {
		log.Printf("[dashboard][employee][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stats"})
		return
	}

	byStatus := gin.H{}
	for _, st := range []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted} {
		n, err := h.assignmentRepo.CountByEmployeeAndStatus(ctx, id, st)
		if err != nil {
			log.Printf("[dashboard][employee][err] id=%s status=%s: %v", id, st, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build stats"})
			return
		}
		byStatus[string(st)] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"employee_id":       id,
		"total_assignments": total,
		"by_status":         byStatus,
	})
}

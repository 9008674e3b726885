package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/internal/models"
	"workdesk/internal/services"
)

type DepartmentHandler struct {
	service   services.DepartmentService
	employees services.EmployeeService
	tasks     services.TaskService
}

func NewDepartmentHandler(service services.DepartmentService, employees services.EmployeeService, tasks services.TaskService) *DepartmentHandler {
	return &DepartmentHandler{service: service, employees: employees, tasks: tasks}
}

// POST /departments (admin)
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &models.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		log.Printf("[department][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create department"})
		return
	}
	log.Printf("[department][create][ok] id=%d name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// GET /departments
func (h *DepartmentHandler) GetAll(c *gin.Context) {
	departments, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[department][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve departments"})
		return
	}
	c.JSON(http.StatusOK, departments)
}

// GET /departments/:id
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	department, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[department][getByID][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to get department")
		return
	}
	c.JSON(http.StatusOK, department)
}

// PUT /departments/:id (admin)
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		log.Printf("[department][update][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to update department")
		return
	}
	log.Printf("[department][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// DELETE /departments/:id (admin)
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[department][delete][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to delete department")
		return
	}
	log.Printf("[department][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// GET /departments/:id/employees
func (h *DepartmentHandler) Employees(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "failed to get department")
		return
	}
	employees, err := h.employees.GetByDepartment(c.Request.Context(), id)
	if err != nil {
		log.Printf("[department][employees][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GET /departments/:id/tasks
func (h *DepartmentHandler) Tasks(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "failed to get department")
		return
	}
	tasks, err := h.tasks.GetAll(c.Request.Context(), models.TaskFilter{DepartmentID: &id})
	if err != nil {
		log.Printf("[department][tasks][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

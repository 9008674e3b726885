package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/internal/authz"
	"workdesk/internal/models"
	"workdesk/internal/services"
)

type EmployeeHandler struct {
	service services.EmployeeService
}

func NewEmployeeHandler(service services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

const birthDateLayout = "2006-01-02"

// POST /employees (admin)
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req struct {
		EmployeeNumber int         `json:"employee_number"`
		Name           string      `json:"name" binding:"required"`
		Email          string      `json:"email"`
		Password       string      `json:"password"`
		DateOfBirth    *string     `json:"date_of_birth"` // 2006-01-02
		Role           models.Role `json:"role"`
		DepartmentID   *int        `json:"department_id"`
		MachineIDs     []string    `json:"machine_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[employee][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := &models.Employee{
		EmployeeNumber: req.EmployeeNumber,
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(birthDateLayout, *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth (YYYY-MM-DD)"})
			return
		}
		employee.DateOfBirth = &dob
	}

	created, err := h.service.CreateWithMachines(c.Request.Context(), employee, req.Password, req.DepartmentID, req.MachineIDs)
	if err != nil {
		log.Printf("[employee][create][err] %v", err)
		respondServiceError(c, err, err.Error())
		return
	}
	log.Printf("[employee][create][ok] id=%s number=%d", created.ID, created.EmployeeNumber)
	c.JSON(http.StatusCreated, created)
}

// GET /employees (admin)
func (h *EmployeeHandler) GetAll(c *gin.Context) {
	employees, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[employee][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GET /employees/:id — self or admin
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id := c.Param("id")
	if !authz.CanActFor(role, callerID, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	employee, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[employee][getByID][err] id=%s: %v", id, err)
		respondServiceError(c, err, "failed to get employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// PUT /employees/:id (admin)
func (h *EmployeeHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		EmployeeNumber *int         `json:"employee_number"`
		Name           *string      `json:"name"`
		Email          *string      `json:"email"`
		DateOfBirth    *string      `json:"date_of_birth"` // 2006-01-02
		Role           *models.Role `json:"role"`
		DepartmentID   *int         `json:"department_id"`
		MachineIDs     []string     `json:"machine_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[employee][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := &models.EmployeePatch{
		EmployeeNumber: req.EmployeeNumber,
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(birthDateLayout, *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth (YYYY-MM-DD)"})
			return
		}
		patch.DateOfBirth = &dob
	}

	updated, err := h.service.UpdateWithMachines(c.Request.Context(), id, patch, req.DepartmentID, req.MachineIDs)
	if err != nil {
		log.Printf("[employee][update][err] id=%s: %v", id, err)
		respondServiceError(c, err, err.Error())
		return
	}
	log.Printf("[employee][update][ok] id=%s", id)
	c.JSON(http.StatusOK, updated)
}

// DELETE /employees/:id (admin)
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[employee][delete][err] id=%s: %v", id, err)
		respondServiceError(c, err, "failed to delete employee")
		return
	}
	log.Printf("[employee][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

// GET /employees/:id/machines — self or admin
func (h *EmployeeHandler) Machines(c *gin.Context) {
	callerID, role := callerIdentity(c)
	id := c.Param("id")
	if !authz.CanActFor(role, callerID, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	ids, err := h.service.MachineIDs(c.Request.Context(), id)
	if err != nil {
		log.Printf("[employee][machines][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve machines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"machine_ids": ids})
}

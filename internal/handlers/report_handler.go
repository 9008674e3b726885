package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/internal/models"
	"workdesk/internal/pdf"
	"workdesk/internal/services"
)

type ReportHandler struct {
	departments services.DepartmentService
	tasks       services.TaskService
	generator   pdf.Generator
}

func NewReportHandler(departments services.DepartmentService, tasks services.TaskService, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{departments: departments, tasks: tasks, generator: generator}
}

// GET /reports/departments/:id/tasks (admin) — PDF download
func (h *ReportHandler) DepartmentTasks(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	department, err := h.departments.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[report][department][err] id=%d: %v", id, err)
		respondServiceError(c, err, "failed to get department")
		return
	}

	tasks, err := h.tasks.GetAll(c.Request.Context(), models.TaskFilter{DepartmentID: &id})
	if err != nil {
		log.Printf("[report][department][err] tasks for id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}

	path, err := h.generator.GenerateDepartmentReport(pdf.DepartmentReportData{
		Department: *department,
		Tasks:      tasks,
		Generated:  time.Now(),
	})
	if err != nil {
		log.Printf("[report][department][err] generate id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	log.Printf("[report][department][ok] id=%d tasks=%d file=%s", id, len(tasks), path)
	c.FileAttachment(path, "department_tasks.pdf")
}

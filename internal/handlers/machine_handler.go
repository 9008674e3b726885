package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/internal/models"
	"workdesk/internal/services"
)

type MachineHandler struct {
	service services.MachineService
}

func NewMachineHandler(service services.MachineService) *MachineHandler {
	return &MachineHandler{service: service}
}

// POST /machines (admin)
func (h *MachineHandler) Create(c *gin.Context) {
	var req struct {
		ID       string `json:"id" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &models.Machine{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		log.Printf("[machine][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create machine"})
		return
	}
	log.Printf("[machine][create][ok] id=%s name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// GET /machines
func (h *MachineHandler) GetAll(c *gin.Context) {
	machines, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[machine][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve machines"})
		return
	}
	c.JSON(http.StatusOK, machines)
}

// GET /machines/:id
func (h *MachineHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	machine, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[machine][getByID][err] id=%s: %v", id, err)
		respondServiceError(c, err, "failed to get machine")
		return
	}
	c.JSON(http.StatusOK, machine)
}

// PUT /machines/:id (admin)
func (h *MachineHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req.Name, req.Location)
	if err != nil {
		log.Printf("[machine][update][err] id=%s: %v", id, err)
		respondServiceError(c, err, "failed to update machine")
		return
	}
	log.Printf("[machine][update][ok] id=%s", id)
	c.JSON(http.StatusOK, updated)
}

// DELETE /machines/:id (admin)
func (h *MachineHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[machine][delete][err] id=%s: %v", id, err)
		respondServiceError(c, err, "failed to delete machine")
		return
	}
	log.Printf("[machine][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

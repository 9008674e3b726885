package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workdesk/internal/middleware"
	"workdesk/internal/services"
)

type AuthHandler struct {
	employees services.EmployeeService
	tokenTTL  time.Duration
}

func NewAuthHandler(employees services.EmployeeService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{employees: employees, tokenTTL: tokenTTL}
}

// @Summary      Log in
// @Description  Authenticates an employee by number and password and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      object  true  "employee_number and password"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		EmployeeNumber int    `json:"employee_number" binding:"required"`
		Password       string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[auth][login] attempt number=%d", req.EmployeeNumber)

	employee, err := h.employees.ValidateLogin(c.Request.Context(), req.EmployeeNumber, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("[auth][login][deny] number=%d", req.EmployeeNumber)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid employee number or password"})
			return
		}
		log.Printf("[auth][login][err] number=%d: %v", req.EmployeeNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := middleware.NewToken(employee.ID, employee.Role, h.tokenTTL)
	if err != nil {
		log.Printf("[auth][login][err] sign token for %s: %v", employee.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	log.Printf("[auth][login][ok] id=%s role=%s", employee.ID, employee.Role)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"employee": employee,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workdesk/internal/middleware"
	"workdesk/internal/models"
	"workdesk/internal/services"
)

func callerIdentity(c *gin.Context) (string, models.Role) {
	return middleware.Identity(c)
}

// parseIntParam reads a numeric path parameter, writing the 400 itself on
// failure.
func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// respondServiceError maps a service/repository error to 404 or 500.
func respondServiceError(c *gin.Context, err error, fallback string) {
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

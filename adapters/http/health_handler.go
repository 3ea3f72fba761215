package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	environment string
	version     string
	startedAt   time.Time
	now         func() time.Time
}

func NewHealthHandler(environment, version string, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		version:     version,
		startedAt:   startedAt,
		now:         time.Now,
	}
}

// Health never touches a store so it answers even when the backend is down.
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"message":     "Profile Manager API is running",
		"timestamp":   now.UTC().Format(time.RFC3339Nano),
		"uptime":      now.Sub(h.startedAt).Seconds(),
		"environment": h.environment,
		"version":     h.version,
	})
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile Manager API",
		"status":  "running",
		"endpoints": gin.H{
			"health":   "/health",
			"profile":  "/api/profile",
			"search":   "/api/search",
			"skills":   "/api/skills/top",
			"projects": "/api/projects",
		},
	})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":  "Route not found",
		"path":   c.Request.URL.RequestURI(),
		"method": c.Request.Method,
	})
}

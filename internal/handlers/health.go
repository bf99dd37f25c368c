package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	env     string
	started time.Time
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env, started: time.Now()}
}

func (h *HealthHandler) RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/", h.ActiveCheck)
	e.GET("/health", h.HealthCheck)
}

func (h *HealthHandler) ActiveCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Active check successful",
		"status":  "success",
	})
}

// HealthCheck reports uptime in seconds.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.env,
	})
}

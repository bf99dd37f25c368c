package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SeedHandler exposes demo content generation
type SeedHandler struct {
	seed *services.SeedService
}

func NewSeedHandler(seed *services.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

func (h *SeedHandler) RegisterSeedRoutes(g *echo.Group) {
	g.POST("/create_sample_posts", h.CreateSamplePosts)
}

func (h *SeedHandler) CreateSamplePosts(c echo.Context) error {
	created, err := h.seed.SeedSamplePosts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      fmt.Sprintf("Successfully created %d sample posts", created),
		"createdCount": created,
	})
}

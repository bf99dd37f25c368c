package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/like", h.ToggleLike)
}

// ToggleLike likes the post, or unlikes it when the caller already did
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	result, err := h.likes.Toggle(c.Request().Context(), tokenFrom(c, req.Token), req.PostID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

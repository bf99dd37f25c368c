package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
	g.GET("/posts/user", h.GetUserFeed)
}

// GetFeed returns every post annotated for the optional viewer token
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.feed.Feed(c.Request().Context(), tokenFrom(c, ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetUserFeed returns the posts of the userId author
func (h *FeedHandler) GetUserFeed(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return badRequest("userId is required")
	}

	posts, err := h.feed.UserFeed(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

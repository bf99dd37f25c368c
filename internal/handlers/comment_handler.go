package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	credentials services.CredentialResolver
	comments    *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(credentials services.CredentialResolver, comments *services.CommentService) *CommentHandler {
	return &CommentHandler{credentials: credentials, comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comment", h.CreateComment)
	g.GET("/get_comments", h.GetComments)
	g.DELETE("/delete_comment", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	user, err := currentAuthor(c, h.credentials, req.Token)
	if err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), user, req.PostID, req.CommentBody)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetComments lists a post's comments
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.QueryParam("post_id")
	if postID == "" {
		return badRequest("post_id is required")
	}

	comments, err := h.comments.ListComments(c.Request().Context(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// DeleteComment deletes a comment written by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	var req models.DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	if req.PostID == "" {
		req.PostID = c.QueryParam("post_id")
	}
	if req.CommentID == "" {
		req.CommentID = c.QueryParam("comment_id")
	}

	user, err := currentAuthor(c, h.credentials, req.Token)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.comments.DeleteComment(c.Request().Context(), user, req.PostID, req.CommentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}

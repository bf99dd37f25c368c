package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	credentials services.CredentialResolver
	posts       *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(credentials services.CredentialResolver, posts *services.PostService) *PostHandler {
	return &PostHandler{credentials: credentials, posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/post", h.CreatePost)
	g.DELETE("/delete_post", h.DeletePost)
}

// CreatePost creates a new post from a multipart form with an optional media file
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
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

	var media *multipart.FileHeader
	if file, err := c.FormFile("media"); err == nil {
		media = file
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return badRequest("Invalid multipart form")
	}

	post, err := h.posts.CreatePost(c.Request().Context(), user, req.Body, media)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	var req models.DeletePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	if req.PostID == "" {
		req.PostID = c.QueryParam("post_id")
	}

	user, err := currentAuthor(c, h.credentials, req.Token)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.posts.DeletePost(c.Request().Context(), user, req.PostID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to accounts and profiles
type UserHandler struct {
	credentials services.CredentialResolver
	profiles    *services.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(credentials services.CredentialResolver, profiles *services.ProfileService) *UserHandler {
	return &UserHandler{credentials: credentials, profiles: profiles}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/get_user_and_profile", h.GetUserAndProfile)
	g.POST("/user_update", h.UpdateUser)
	g.POST("/update_profile_data", h.UpdateProfile)
	g.POST("/upload_profile_pic", h.UploadProfilePicture)
	g.GET("/user/get_all_users", h.ListProfiles)
	g.GET("/user/get_profile_based_on_username", h.ProfileByUsername)
}

// GetUserAndProfile returns the caller's profile with the user joined in
func (h *UserHandler) GetUserAndProfile(c echo.Context) error {
	user, err := currentUser(c, h.credentials, "")
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.profiles.GetUserAndProfile(c.Request().Context(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateUser changes name, username or email of the caller
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	user, err := currentUser(c, h.credentials, req.Token)
	if err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profiles.UpdateUser(c.Request().Context(), user, req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User profile updated successfully"})
}

// UpdateProfile changes the caller's professional details
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	user, err := currentUser(c, h.credentials, req.Token)
	if err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), user, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile data updated successfully",
		"profile": profile,
	})
}

// UploadProfilePicture replaces the caller's profile picture
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	file, err := c.FormFile("profilePic")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return badRequest("No file uploaded")
		}
		return badRequest("Invalid multipart form")
	}

	user, err := currentUser(c, h.credentials, "")
	if err != nil {
		return respondError(c, err)
	}

	uploaded, err := h.profiles.UploadProfilePicture(c.Request().Context(), user, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile picture uploaded successfully",
		"file":    uploaded,
	})
}

func (h *UserHandler) ListProfiles(c echo.Context) error {
	views, err := h.profiles.ListProfiles(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *UserHandler) ProfileByUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return badRequest("Username is required")
	}

	view, err := h.profiles.ProfileByUsername(c.Request().Context(), username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

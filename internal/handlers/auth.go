package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	if h.auth.FirebaseEnabled() {
		g.POST("/firebase_login", h.FirebaseLogin)
	}
}

// Register handles local user registration with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user.ToAccountSummary(),
	})
}

// Login checks credentials and returns a fresh token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return sessionResponse(c, session)
}

// FirebaseLogin exchanges a Firebase ID token for a Connectly token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}
	return sessionResponse(c, session)
}

func sessionResponse(c echo.Context, session *services.Session) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User.ToAccountSummary(),
	})
}

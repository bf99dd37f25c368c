package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles HTTP requests related to connections
type ConnectionHandler struct {
	credentials services.CredentialResolver
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(credentials services.CredentialResolver, connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{credentials: credentials, connections: connections}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connection_request", h.SendRequest)
	g.GET("/get_connections", h.ListConnections)
	g.GET("/user_connection_requests", h.ListPendingRequests)
	g.POST("/accept_connection_request", h.Respond)
}

// SendRequest handles sending a connection request
func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	var req models.SendConnectionRequest
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

	if err := h.connections.SendRequest(c.Request().Context(), user, req.ConnectionID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection request sent successfully"})
}

// ListConnections returns the caller's accepted connections
func (h *ConnectionHandler) ListConnections(c echo.Context) error {
	user, err := currentUser(c, h.credentials, "")
	if err != nil {
		return respondError(c, err)
	}

	connections, err := h.connections.ListConnections(c.Request().Context(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"connections": connections})
}

// ListPendingRequests returns requests waiting for the caller's answer
func (h *ConnectionHandler) ListPendingRequests(c echo.Context) error {
	user, err := currentUser(c, h.credentials, "")
	if err != nil {
		return respondError(c, err)
	}

	pending, err := h.connections.ListPendingRequests(c.Request().Context(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"connections": pending})
}

// Respond accepts or rejects a connection request addressed to the caller
func (h *ConnectionHandler) Respond(c echo.Context) error {
	var req models.RespondConnectionRequest
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

	action, err := h.connections.Respond(c.Request().Context(), user, req.RequestID, req.ActionType)
	if err != nil {
		return respondError(c, err)
	}

	message := "Connection request accepted"
	if action == models.ActionReject {
		message = "Connection request rejected"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

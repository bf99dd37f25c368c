package services

import (
	"context"
	"errors"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// ConnectionService is the connection graph state machine: a request is
// pending until its target accepts it (accepted) or rejects it (deleted).
type ConnectionService struct {
	connections repositories.ConnectionRepository
	users       repositories.UserRepository
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(connections repositories.ConnectionRepository, users repositories.UserRepository) *ConnectionService {
	return &ConnectionService{connections: connections, users: users}
}

// SendRequest creates a pending edge from requester to targetID. Only the
// exact ordered pair is checked for duplicates, so a reverse request is allowed.
func (s *ConnectionService) SendRequest(ctx context.Context, requester *models.User, targetID string) error {
	if targetID == requester.ID {
		return models.NewValidationError("You cannot connect with yourself")
	}

	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return notFoundOr(err, "Connection user not found")
	}

	_, err := s.connections.GetConnectionByPair(ctx, requester.ID, targetID)
	if err == nil {
		return models.NewConflictError("Connection request already sent")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.NewInternalError(err)
	}

	conn := &models.Connection{
		UserID:       requester.ID,
		ConnectionID: targetID,
		Status:       models.ConnectionPending,
	}
	if err := s.connections.CreateConnection(ctx, conn); err != nil {
		return models.NewInternalError(err)
	}
	metrics.ConnectionTransitions.WithLabelValues("requested").Inc()
	return nil
}

// Respond applies the recipient's action to request requestID. The request
// must target recipient. Reject deletes the edge whatever its status, so it
// also removes an accepted connection.
func (s *ConnectionService) Respond(ctx context.Context, recipient *models.User, requestID, action string) (models.ConnectionAction, error) {
	conn, err := s.connections.GetIncomingConnection(ctx, requestID, recipient.ID)
	if err != nil {
		return "", notFoundOr(err, "Connection request not found")
	}

	switch models.ConnectionAction(action) {
	case models.ActionAccept:
		if err := s.connections.UpdateConnectionStatus(ctx, conn.ID, models.ConnectionAccepted); err != nil {
			return "", notFoundOr(err, "Connection request not found")
		}
		metrics.ConnectionTransitions.WithLabelValues("accepted").Inc()
		return models.ActionAccept, nil
	case models.ActionReject:
		if err := s.connections.DeleteConnection(ctx, conn.ID); err != nil {
			return "", notFoundOr(err, "Connection request not found")
		}
		metrics.ConnectionTransitions.WithLabelValues("rejected").Inc()
		return models.ActionReject, nil
	default:
		return "", models.NewValidationError("Invalid action type")
	}
}

// ListConnections returns every accepted edge touching user, from either
// side, with the other party joined under connectionId.
func (s *ConnectionService) ListConnections(ctx context.Context, user *models.User) ([]models.ConnectionView, error) {
	sent, err := s.connections.GetConnectionsBySender(ctx, user.ID, models.ConnectionAccepted)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	received, err := s.connections.GetConnectionsByRecipient(ctx, user.ID, models.ConnectionAccepted)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	type edge struct {
		conn    models.Connection
		otherID string
	}
	edges := make([]edge, 0, len(sent)+len(received))
	seen := make(map[string]bool, cap(edges))
	for _, c := range sent {
		if !seen[c.ID] {
			seen[c.ID] = true
			edges = append(edges, edge{conn: c, otherID: c.ConnectionID})
		}
	}
	for _, c := range received {
		if !seen[c.ID] {
			seen[c.ID] = true
			edges = append(edges, edge{conn: c, otherID: c.UserID})
		}
	}

	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.otherID
	}
	users, err := usersByID(ctx, s.users, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.ConnectionView, 0, len(edges))
	for _, e := range edges {
		other := models.UserCompact{ID: e.otherID}
		if u, ok := users[e.otherID]; ok {
			other = u.ToCompact()
		}
		views = append(views, models.ConnectionView{
			ID:           e.conn.ID,
			ConnectionID: other,
			Status:       e.conn.Status,
			CreatedAt:    e.conn.CreatedAt,
		})
	}
	return views, nil
}

// ListPendingRequests returns the pending requests addressed to user with
// each requester joined under userId.
func (s *ConnectionService) ListPendingRequests(ctx context.Context, user *models.User) ([]models.PendingRequestView, error) {
	pending, err := s.connections.GetConnectionsByRecipient(ctx, user.ID, models.ConnectionPending)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]string, len(pending))
	for i, c := range pending {
		ids[i] = c.UserID
	}
	users, err := usersByID(ctx, s.users, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.PendingRequestView, 0, len(pending))
	for _, c := range pending {
		requester := models.UserCompact{ID: c.UserID}
		if u, ok := users[c.UserID]; ok {
			requester = u.ToCompact()
		}
		views = append(views, models.PendingRequestView{
			ID:           c.ID,
			UserID:       requester,
			ConnectionID: c.ConnectionID,
			Status:       c.Status,
			CreatedAt:    c.CreatedAt,
		})
	}
	return views, nil
}

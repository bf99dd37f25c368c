package models

import "time"

// ConnectionStatus is the state of a directed connection request.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	// ConnectionRejected is never stored: rejecting a request deletes it.
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a request edge from UserID (requester) to ConnectionID (target).
type Connection struct {
	ID           string           `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID       string           `json:"userId" bson:"userId" gorm:"index;type:varchar(24)"`
	ConnectionID string           `json:"connectionId" bson:"connectionId" gorm:"index;type:varchar(24)"`
	Status       ConnectionStatus `json:"status" bson:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
}

// ConnectionAction is the recipient's answer to a pending request.
type ConnectionAction string

const (
	ActionAccept ConnectionAction = "accept"
	ActionReject ConnectionAction = "reject"
)

// ConnectionView is an accepted edge seen from one side: the other party is
// always under connectionId, whichever side sent the request.
type ConnectionView struct {
	ID           string           `json:"_id"`
	ConnectionID UserCompact      `json:"connectionId"`
	Status       ConnectionStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// PendingRequestView is an incoming request with the requester joined.
type PendingRequestView struct {
	ID           string           `json:"_id"`
	UserID       UserCompact      `json:"userId"`
	ConnectionID string           `json:"connectionId"`
	Status       ConnectionStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// SendConnectionRequest defines the request body for sending a connection request
type SendConnectionRequest struct {
	Token        string `json:"token"`
	ConnectionID string `json:"connectionId" validate:"required"`
}

// RespondConnectionRequest defines the request body for accepting/rejecting a request.
// ActionType is checked after the request is found, so it carries no validate tag.
type RespondConnectionRequest struct {
	Token      string `json:"token"`
	RequestID  string `json:"requestId" validate:"required"`
	ActionType string `json:"action_type"`
}

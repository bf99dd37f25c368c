package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultProfilePic is assigned to every account until a picture is uploaded.
const DefaultProfilePic = "default.jpg"

// User is an identity record. The same struct is persisted by the Mongo and
// the relational store, so it carries bson and gorm tags side by side.
type User struct {
	ID          string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" bson:"name" gorm:"not null"`
	Username    string    `json:"username" bson:"username" gorm:"uniqueIndex;not null"`
	Email       string    `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-" bson:"password"` // bcrypt hash
	ProfilePic  string    `json:"profilePic" bson:"profilePic" gorm:"default:default.jpg"`
	Token       string    `json:"-" bson:"token" gorm:"index"`
	FirebaseUID string    `json:"-" bson:"firebaseUid,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// UserCompact is the public projection of a user joined into other documents.
type UserCompact struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// ToCompact projects the user for embedding in responses.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}

// ToAuthor is the projection joined into posts and comments; it omits the email.
func (u *User) ToAuthor() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// AccountSummary is the identity echoed back by register and login.
type AccountSummary struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (u *User) ToAccountSummary() AccountSummary {
	return AccountSummary{Name: u.Name, Email: u.Email, Username: u.Username}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a Connectly token.
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateUserRequest lists the only account fields a user may change.
// Empty values leave the stored field untouched.
type UpdateUserRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Username string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// ExternalIdentity is a verified identity asserted by an external provider.
type ExternalIdentity struct {
	UID   string
	Email string
	Name  string
}

// TokenClaims are the claims carried by an issued credential token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

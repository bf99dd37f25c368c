package models

import "time"

// Comment represents a reply attached to a post
type Comment struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID    string    `json:"userId" bson:"userId" gorm:"index;type:varchar(24)"`
	PostID    string    `json:"postId" bson:"postId" gorm:"index;type:varchar(24)"`
	Body      string    `json:"body" bson:"body" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// CommentView is a comment with its author joined.
type CommentView struct {
	Comment
	UserID UserCompact `json:"userId"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Token       string `json:"token"`
	PostID      string `json:"post_id" validate:"required"`
	CommentBody string `json:"commentBody" validate:"required"`
}

type DeleteCommentRequest struct {
	Token     string `json:"token"`
	PostID    string `json:"post_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
}

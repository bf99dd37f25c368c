package models

import "time"

// Post represents a content item authored by a user
type Post struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID    string    `json:"userId" bson:"userId" gorm:"index;type:varchar(24)"`
	Body      string    `json:"body" bson:"body" gorm:"not null"`
	Media     string    `json:"media" bson:"media"`
	FileType  string    `json:"fileType" bson:"fileType"`
	Active    bool      `json:"active" bson:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FeedPost is a post annotated for one viewer.
type FeedPost struct {
	Post
	UserID       UserCompact `json:"userId"`
	LikesCount   int64       `json:"likesCount"`
	UserHasLiked bool        `json:"userHasLiked"`
}

// AuthorPost is a post in a per-author listing. It has no viewer, so it
// carries no userHasLiked flag.
type AuthorPost struct {
	Post
	UserID     UserCompact `json:"userId"`
	LikesCount int64       `json:"likesCount"`
}

// CreatePostRequest is bound from the multipart form of POST /post; the
// media file is read separately.
type CreatePostRequest struct {
	Token string `json:"token" form:"token"`
	Body  string `json:"body" form:"body" validate:"required"`
}

type DeletePostRequest struct {
	Token  string `json:"token"`
	PostID string `json:"post_id" validate:"required"`
}

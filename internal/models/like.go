package models

import "time"

// Like is the membership of one user in the like set of one post.
type Like struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID    string    `json:"userId" bson:"userId" gorm:"uniqueIndex:idx_like_user_post;type:varchar(24)"`
	PostID    string    `json:"postId" bson:"postId" gorm:"uniqueIndex:idx_like_user_post;index;type:varchar(24)"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ToggleLikeRequest struct {
	Token  string `json:"token"`
	PostID string `json:"post_id"`
}

// LikeToggleResult reports membership after a toggle and the recomputed count.
type LikeToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

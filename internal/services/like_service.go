package services

import (
	"context"
	"errors"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// LikeService toggles membership in a post's like set.
type LikeService struct {
	likes       repositories.LikeRepository
	posts       repositories.PostRepository
	credentials CredentialResolver
}

// NewLikeService creates a new LikeService
func NewLikeService(likes repositories.LikeRepository, posts repositories.PostRepository, credentials CredentialResolver) *LikeService {
	return &LikeService{likes: likes, posts: posts, credentials: credentials}
}

// Toggle flips the like of the token holder on postID and reports the new
// state with a freshly counted total. The post is checked before the token.
func (s *LikeService) Toggle(ctx context.Context, token, postID string) (*models.LikeToggleResult, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, "Post not found")
	}

	user, err := s.credentials.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.HasUserLikedPost(ctx, postID, user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if liked {
		if _, err := s.likes.DeleteLike(ctx, postID, user.ID); err != nil {
			return nil, models.NewInternalError(err)
		}
	} else {
		err := s.likes.CreateLike(ctx, &models.Like{UserID: user.ID, PostID: postID})
		// A duplicate means a concurrent toggle inserted first: already liked.
		if err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, models.NewInternalError(err)
		}
	}

	count, err := s.likes.CountLikesByPostID(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	result := "liked"
	if liked {
		result = "unliked"
	}
	metrics.LikeToggles.WithLabelValues(result).Inc()

	return &models.LikeToggleResult{Liked: !liked, LikeCount: count}, nil
}

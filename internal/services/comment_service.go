package services

import (
	"context"
	"strings"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// CommentService manages replies attached to posts.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users}
}

func (s *CommentService) CreateComment(ctx context.Context, author *models.User, postID, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, "Post not found")
	}

	comment := &models.Comment{UserID: author.ID, PostID: postID, Body: body}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// ListComments returns the comments of postID with their authors joined.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.CommentView, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, "Post not found")
	}

	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	users, err := usersByID(ctx, s.users, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author := models.UserCompact{ID: c.UserID}
		if u, ok := users[c.UserID]; ok {
			author = models.UserCompact{ID: u.ID, Name: u.Name, Username: u.Username}
		}
		views = append(views, models.CommentView{Comment: c, UserID: author})
	}
	return views, nil
}

// DeleteComment removes commentID only if user wrote it and it belongs to postID.
func (s *CommentService) DeleteComment(ctx context.Context, user *models.User, postID, commentID string) error {
	if err := s.comments.DeleteCommentByOwner(ctx, commentID, user.ID, postID); err != nil {
		return notFoundOr(err, "Comment not found or you do not have permission to delete this comment")
	}
	return nil
}

package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/storage"
)

// PostService creates and deletes posts.
type PostService struct {
	posts          repositories.PostRepository
	blobs          storage.BlobStore
	maxUploadBytes int64
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, blobs storage.BlobStore, maxUploadBytes int64) *PostService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = storage.MaxUploadBytes
	}
	return &PostService{posts: posts, blobs: blobs, maxUploadBytes: maxUploadBytes}
}

// CreatePost stores an optional image and the post referencing it.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, body string, media *multipart.FileHeader) (*models.Post, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Post body is required")
	}

	post := &models.Post{
		UserID: author.ID,
		Body:   body,
		Active: true,
	}

	if media != nil {
		upload, err := storage.ReadImage(media, s.maxUploadBytes)
		if err != nil {
			return nil, uploadError(err, s.maxUploadBytes)
		}
		name := storage.NewObjectName(upload.ContentType)
		if err := s.blobs.Put(ctx, name, upload.ContentType, upload.Data); err != nil {
			return nil, models.NewInternalError(err)
		}
		metrics.MediaUploads.WithLabelValues(s.blobs.Backend(), "post_media").Inc()
		post.Media = name
		post.FileType = upload.FileType()
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	slog.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", author.ID)
	return post, nil
}

// DeletePost removes postID if user authored it. A missing post and a post
// by someone else are reported the same way.
func (s *PostService) DeletePost(ctx context.Context, user *models.User, postID string) error {
	if err := s.posts.DeletePostByOwner(ctx, postID, user.ID); err != nil {
		return notFoundOr(err, "Post not found or you do not have permission to delete this post")
	}
	return nil
}

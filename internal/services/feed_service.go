package services

import (
	"context"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// FeedService assembles post listings with authors and like state joined in.
type FeedService struct {
	posts       repositories.PostRepository
	likes       repositories.LikeRepository
	users       repositories.UserRepository
	credentials CredentialResolver
}

// NewFeedService creates a new FeedService
func NewFeedService(posts repositories.PostRepository, likes repositories.LikeRepository, users repositories.UserRepository, credentials CredentialResolver) *FeedService {
	return &FeedService{posts: posts, likes: likes, users: users, credentials: credentials}
}

// Feed returns all posts newest first, annotated for the viewer holding
// token. A missing or invalid token yields an anonymous feed, not an error.
func (s *FeedService) Feed(ctx context.Context, token string) ([]models.FeedPost, error) {
	viewerID := ""
	if token != "" {
		viewer, err := s.credentials.Resolve(ctx, token)
		switch {
		case err == nil:
			viewerID = viewer.ID
		case !models.IsKind(err, models.KindUnauthorized):
			return nil, err
		}
	}

	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	j, err := s.join(ctx, posts, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	feed := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, models.FeedPost{
			Post:         p,
			UserID:       j.author(p.UserID),
			LikesCount:   j.counts[p.ID],
			UserHasLiked: j.liked[p.ID],
		})
	}
	return feed, nil
}

// UserFeed returns the posts of one author newest first. It has no viewer
// and carries no per-viewer like flag.
func (s *FeedService) UserFeed(ctx context.Context, userID string) ([]models.AuthorPost, error) {
	posts, err := s.posts.GetPostsByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	j, err := s.join(ctx, posts, "")
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	feed := make([]models.AuthorPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, models.AuthorPost{
			Post:       p,
			UserID:     j.author(p.UserID),
			LikesCount: j.counts[p.ID],
		})
	}
	return feed, nil
}

type postJoin struct {
	authors map[string]*models.User
	counts  map[string]int64
	liked   map[string]bool
}

func (j *postJoin) author(id string) models.UserCompact {
	if u, ok := j.authors[id]; ok {
		return u.ToAuthor()
	}
	return models.UserCompact{ID: id}
}

// join loads authors, like counts and the viewer's likes for posts in one
// query each.
func (s *FeedService) join(ctx context.Context, posts []models.Post, viewerID string) (*postJoin, error) {
	postIDs := make([]string, len(posts))
	authorIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorIDs[i] = p.UserID
	}

	authors, err := usersByID(ctx, s.users, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.likes.CountLikesByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	liked := map[string]bool{}
	if viewerID != "" {
		if liked, err = s.likes.GetLikedPostIDs(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
	}
	return &postJoin{authors: authors, counts: counts, liked: liked}, nil
}

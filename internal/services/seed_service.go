package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/brianvoe/gofakeit/v6"
)

var samplePosts = []struct {
	body   string
	maxAge time.Duration
}{
	{"Excited to share my latest project! Working on innovative solutions that make a difference.", 7 * 24 * time.Hour},
	{"Great team collaboration today! The power of working together towards common goals.", 14 * 24 * time.Hour},
	{"Learning new technologies and expanding my skill set. Growth mindset is key!", 21 * 24 * time.Hour},
}

// SeedService fills the store with demo content.
type SeedService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
	now   func() time.Time
}

// NewSeedService creates a new SeedService
func NewSeedService(users repositories.UserRepository, posts repositories.PostRepository) *SeedService {
	return &SeedService{users: users, posts: posts, now: time.Now}
}

// SeedSamplePosts gives every user the sample posts they do not have yet,
// backdated at random within the last few weeks. It returns how many posts
// were created.
func (s *SeedService) SeedSamplePosts(ctx context.Context) (int, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	created := 0
	now := s.now()
	for _, user := range users {
		for _, sample := range samplePosts {
			_, err := s.posts.FindPostByUserAndBody(ctx, user.ID, sample.body)
			if err == nil {
				continue
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return created, models.NewInternalError(err)
			}

			post := &models.Post{
				UserID:    user.ID,
				Body:      sample.body,
				Active:    true,
				CreatedAt: gofakeit.DateRange(now.Add(-sample.maxAge), now).UTC(),
			}
			if err := s.posts.CreatePost(ctx, post); err != nil {
				return created, models.NewInternalError(err)
			}
			created++
		}
	}

	slog.InfoContext(ctx, "sample posts seeded", "users", len(users), "created", created)
	return created, nil
}

// DemoAccount is a generated identity for seeding.
type DemoAccount = models.RegisterRequest

// NewDemoAccounts generates n random but valid registration requests.
func NewDemoAccounts(n int) []DemoAccount {
	accounts := make([]DemoAccount, 0, n)
	for i := 0; i < n; i++ {
		person := gofakeit.Person()
		accounts = append(accounts, DemoAccount{
			Name:     person.FirstName + " " + person.LastName,
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 12),
			Username: gofakeit.Username(),
		})
	}
	return accounts
}

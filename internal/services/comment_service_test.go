package services

import (
	"context"
	"testing"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, _ := f.signup(t, "author")
	reader, _ := f.signup(t, "reader")

	post := &models.Post{UserID: author.ID, Body: "discuss", Active: true}
	require.NoError(t, f.store.Posts.CreatePost(ctx, post))
	svc := NewCommentService(f.store.Comments, f.store.Posts, f.store.Users)

	first, err := svc.CreateComment(ctx, reader, post.ID, "first!")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, author, post.ID, "thanks")
	require.NoError(t, err)

	t.Run("comment on a missing post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, reader, "000000000000000000000000", "hello")
		requireKind(t, err, models.KindNotFound, "Post not found")
	})

	t.Run("empty comment", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, reader, post.ID, "")
		requireKind(t, err, models.KindValidation, "")
	})

	t.Run("list joins authors", func(t *testing.T) {
		views, err := svc.ListComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "first!", views[0].Body)
		assert.Equal(t, "reader", views[0].UserID.Username)
		assert.Equal(t, "User reader", views[0].UserID.Name)
		assert.Empty(t, views[0].UserID.Email)
		assert.Equal(t, "author", views[1].UserID.Username)

		_, err = svc.ListComments(ctx, "000000000000000000000000")
		requireKind(t, err, models.KindNotFound, "Post not found")
	})

	t.Run("only the writer deletes", func(t *testing.T) {
		const denied = "Comment not found or you do not have permission to delete this comment"
		err := svc.DeleteComment(ctx, author, post.ID, first.ID)
		requireKind(t, err, models.KindNotFound, denied)

		err = svc.DeleteComment(ctx, reader, "000000000000000000000000", first.ID)
		requireKind(t, err, models.KindNotFound, denied)

		require.NoError(t, svc.DeleteComment(ctx, reader, post.ID, first.ID))

		views, err := svc.ListComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "thanks", views[0].Body)
	})
}

package services

import (
	"context"
	"testing"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRequests(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ConnectionService, *fixture, *models.User, *models.User) {
		f := newFixture(t)
		alice, _ := f.signup(t, "alice")
		bob, _ := f.signup(t, "bob")
		return NewConnectionService(f.store.Connections, f.store.Users), f, alice, bob
	}

	t.Run("self request is rejected", func(t *testing.T) {
		svc, _, alice, _ := setup(t)
		err := svc.SendRequest(ctx, alice, alice.ID)
		requireKind(t, err, models.KindValidation, "You cannot connect with yourself")
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, _, alice, _ := setup(t)
		err := svc.SendRequest(ctx, alice, "000000000000000000000000")
		requireKind(t, err, models.KindNotFound, "Connection user not found")
	})

	t.Run("duplicate is rejected but reverse is allowed", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))

		err := svc.SendRequest(ctx, alice, bob.ID)
		requireKind(t, err, models.KindConflict, "Connection request already sent")

		require.NoError(t, svc.SendRequest(ctx, bob, alice.ID))

		forward, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, forward.Status)
	})

	t.Run("pending requests list the requester", func(t *testing.T) {
		svc, _, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))

		pending, err := svc.ListPendingRequests(ctx, bob)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, alice.ID, pending[0].UserID.ID)
		assert.Equal(t, "alice", pending[0].UserID.Username)
		assert.Equal(t, "alice@example.com", pending[0].UserID.Email)
		assert.Equal(t, bob.ID, pending[0].ConnectionID)

		sent, err := svc.ListPendingRequests(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, sent)
	})

	t.Run("accept is visible from both sides", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		conn, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		action, err := svc.Respond(ctx, bob, conn.ID, "accept")
		require.NoError(t, err)
		assert.Equal(t, models.ActionAccept, action)

		// accepting twice is harmless
		_, err = svc.Respond(ctx, bob, conn.ID, "accept")
		require.NoError(t, err)

		fromAlice, err := svc.ListConnections(ctx, alice)
		require.NoError(t, err)
		require.Len(t, fromAlice, 1)
		assert.Equal(t, bob.ID, fromAlice[0].ConnectionID.ID)
		assert.Equal(t, models.ConnectionAccepted, fromAlice[0].Status)

		fromBob, err := svc.ListConnections(ctx, bob)
		require.NoError(t, err)
		require.Len(t, fromBob, 1)
		assert.Equal(t, alice.ID, fromBob[0].ConnectionID.ID)
		assert.Equal(t, conn.ID, fromBob[0].ID)

		pending, err := svc.ListPendingRequests(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("only the recipient may respond", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		conn, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		_, err = svc.Respond(ctx, alice, conn.ID, "accept")
		requireKind(t, err, models.KindNotFound, "Connection request not found")

		_, err = svc.Respond(ctx, bob, "000000000000000000000000", "accept")
		requireKind(t, err, models.KindNotFound, "Connection request not found")
	})

	t.Run("invalid action leaves the request pending", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		conn, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		_, err = svc.Respond(ctx, bob, conn.ID, "maybe")
		requireKind(t, err, models.KindValidation, "Invalid action type")

		conn, err = f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, conn.Status)
	})

	t.Run("reject deletes the edge so it can be requested again", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		conn, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		action, err := svc.Respond(ctx, bob, conn.ID, "reject")
		require.NoError(t, err)
		assert.Equal(t, models.ActionReject, action)

		_, err = f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
	})

	t.Run("reject removes an accepted connection", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		conn, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		_, err = svc.Respond(ctx, bob, conn.ID, "accept")
		require.NoError(t, err)

		_, err = svc.Respond(ctx, bob, conn.ID, "reject")
		require.NoError(t, err)

		list, err := svc.ListConnections(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("mutual accepted requests list both edges", func(t *testing.T) {
		svc, f, alice, bob := setup(t)
		require.NoError(t, svc.SendRequest(ctx, alice, bob.ID))
		require.NoError(t, svc.SendRequest(ctx, bob, alice.ID))

		ab, err := f.store.Connections.GetConnectionByPair(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		ba, err := f.store.Connections.GetConnectionByPair(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		_, err = svc.Respond(ctx, bob, ab.ID, "accept")
		require.NoError(t, err)
		_, err = svc.Respond(ctx, alice, ba.ID, "accept")
		require.NoError(t, err)

		list, err := svc.ListConnections(ctx, alice)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, c := range list {
			assert.Equal(t, bob.ID, c.ConnectionID.ID)
		}
	})
}

// Package services implements Connectly's domain operations on top of the
// repositories. Services return *models.AppError for every failure a client
// can cause; anything else is wrapped as an internal error.
package services

import (
	"context"
	"errors"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// CredentialResolver turns a presented token into the user holding it.
type CredentialResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// TokenCache is an optional token → user id cache in front of the user store.
type TokenCache interface {
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, userID string) error
	Delete(ctx context.Context, token string) error
}

// IdentityVerifier checks an ID token issued by an external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*models.ExternalIdentity, error)
}

// notFoundOr maps repositories.ErrNotFound to a NotFound error with message
// and anything else to an internal error.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewNotFoundError(message)
	}
	return models.NewInternalError(err)
}

// identityTaken reports whether email or username belongs to a user other
// than exceptID. Empty values are not checked.
func identityTaken(ctx context.Context, users repositories.UserRepository, email, username, exceptID string) (bool, error) {
	lookups := []struct {
		value string
		get   func(context.Context, string) (*models.User, error)
	}{
		{email, users.GetUserByEmail},
		{username, users.GetUserByUsername},
	}
	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		existing, err := l.get(ctx, l.value)
		if err == nil && existing.ID != exceptID {
			return true, nil
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

// usersByID loads the given users into a map keyed by id.
func usersByID(ctx context.Context, users repositories.UserRepository, ids []string) (map[string]*models.User, error) {
	found, err := users.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	return byID, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

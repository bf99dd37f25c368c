package firebase

import (
	"context"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIdentityFromToken(t *testing.T) {
	ident := identityFromToken(&auth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "ada@example.com", "name": "Ada"},
	})
	assert.Equal(t, &models.ExternalIdentity{UID: "uid-1", Email: "ada@example.com", Name: "Ada"}, ident)

	bare := identityFromToken(&auth.Token{UID: "uid-2", Claims: map[string]interface{}{"email": 42}})
	assert.Equal(t, &models.ExternalIdentity{UID: "uid-2"}, bare)
}

func TestInitFirebaseMissingCredentials(t *testing.T) {
	_, err := InitFirebase(context.Background(), "")
	assert.Error(t, err)

	_, err = InitFirebase(context.Background(), t.TempDir()+"/missing.json")
	assert.Error(t, err)
}

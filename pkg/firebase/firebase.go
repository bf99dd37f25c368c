package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/anonto42/connectly/backend/internal/models"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, errors.New("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file not found at %s: %w", credentialsPath, err)
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	slog.Info("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// Verify checks a Firebase ID token and returns the identity it asserts.
func (a *App) Verify(ctx context.Context, idToken string) (*models.ExternalIdentity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return identityFromToken(token), nil
}

func identityFromToken(token *auth.Token) *models.ExternalIdentity {
	ident := &models.ExternalIdentity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		ident.Name = name
	}
	return ident
}

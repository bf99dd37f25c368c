package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/storage"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return repositories.NewPostgresStore(db)
}

type fixture struct {
	store *repositories.Store
	blobs *storage.LocalStore
	auth  *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newTestStore(t)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return &fixture{
		store: store,
		blobs: blobs,
		auth:  NewAuthService(store.Users, store.Profiles, AuthOptions{Secret: testSecret}),
	}
}

// signup registers username and logs in, returning the user and its token.
func (f *fixture) signup(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	req := models.RegisterRequest{
		Name:     "User " + username,
		Email:    username + "@example.com",
		Password: "password123",
		Username: username,
	}
	_, err := f.auth.Register(ctx, req)
	require.NoError(t, err)

	session, err := f.auth.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	return session.User, session.Token
}

func requireKind(t *testing.T, err error, kind models.ErrorKind, message string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.IsKind(err, kind), "expected %s, got %v", kind, err)
	if message != "" {
		require.Equal(t, message, err.(*models.AppError).Message)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 90, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// fileHeader builds a *multipart.FileHeader the way a parsed form would.
func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["media"][0]
}

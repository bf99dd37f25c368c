package router

import (
	"bytes"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/storage"
	"github.com/anonto42/connectly/backend/validators"
	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	blobs *storage.LocalStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repositories.AutoMigrate(db))

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()
	SetupRoutes(e, Options{
		Store:       repositories.NewPostgresStore(db),
		Blobs:       blobs,
		Env:         "test",
		TokenSecret: "router-test-secret",
		TokenTTL:    time.Hour,
	})
	return &testServer{t: t, e: e, blobs: blobs}
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.serve(req)
}

// multipartReq builds a form with fields and an optional file part.
func (s *testServer) multipartReq(path string, fields map[string]string, fileField, filename string, data []byte) *http.Request {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(s.t, err)
		_, err = part.Write(data)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

// signup registers and logs in, returning the token.
func (s *testServer) signup(username string) string {
	s.t.Helper()
	rec := s.json(http.MethodPost, "/register", map[string]string{
		"name": "User " + username, "email": username + "@example.com",
		"password": "password123", "username": username,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.json(http.MethodPost, "/login", map[string]string{
		"email": username + "@example.com", "password": "password123",
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &out)
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	decode(t, rec, &out)
	return out.Message
}

func png(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(32, 16, color.NRGBA{B: 255, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Active check successful", message(t, rec))

	rec = s.json(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	decode(t, rec, &health)
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, "test", health["environment"])
	assert.Contains(t, health, "uptime")
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "pw", "username": "ada",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered struct {
		Message string            `json:"message"`
		User    map[string]string `json:"user"`
	}
	decode(t, rec, &registered)
	assert.Equal(t, "User registered successfully", registered.Message)
	assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com", "username": "ada"}, registered.User)

	rec = s.json(http.MethodPost, "/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "pw", "username": "ada2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", message(t, rec))

	rec = s.json(http.MethodPost, "/register", map[string]string{"name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", message(t, rec))

	rec = s.json(http.MethodPost, "/login", map[string]string{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", message(t, rec))

	rec = s.json(http.MethodPost, "/firebase_login", map[string]string{"idToken": "x"})
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestEmptyFeedAfterLogin(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ada")

	rec := s.json(http.MethodGet, "/posts?token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"posts": []}`, rec.Body.String())
}

func TestPostLikeToggle(t *testing.T) {
	s := newTestServer(t)
	authorToken := s.signup("author")
	fanToken := s.signup("fan")

	rec := s.serve(s.multipartReq("/post", map[string]string{"token": authorToken, "body": "hello"}, "media", "pic.png", png(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Message string `json:"message"`
		Post    struct {
			ID       string `json:"_id"`
			Media    string `json:"media"`
			FileType string `json:"fileType"`
		} `json:"post"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "Post created successfully", created.Message)
	assert.Equal(t, "png", created.Post.FileType)

	rec = s.json(http.MethodGet, "/media/"+created.Post.Media, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	like := map[string]string{"post_id": created.Post.ID, "token": fanToken}
	rec = s.json(http.MethodPost, "/like", like)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked": true, "likeCount": 1}`, rec.Body.String())

	rec = s.json(http.MethodGet, "/posts?token="+fanToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed struct {
		Posts []struct {
			LikesCount   int64 `json:"likesCount"`
			UserHasLiked bool  `json:"userHasLiked"`
			UserID       struct {
				Username string `json:"username"`
			} `json:"userId"`
		} `json:"posts"`
	}
	decode(t, rec, &feed)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, int64(1), feed.Posts[0].LikesCount)
	assert.True(t, feed.Posts[0].UserHasLiked)
	assert.Equal(t, "author", feed.Posts[0].UserID.Username)

	rec = s.json(http.MethodPost, "/like", like)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked": false, "likeCount": 0}`, rec.Body.String())

	rec = s.json(http.MethodPost, "/like", map[string]string{"post_id": created.Post.ID, "token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(http.MethodPost, "/like", map[string]string{"post_id": "000000000000000000000000", "token": "bogus"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostAndCommentPermissions(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signup("owner")
	otherToken := s.signup("other")

	rec := s.serve(s.multipartReq("/post", map[string]string{"token": "bogus", "body": "x"}, "", "", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))

	rec = s.serve(s.multipartReq("/post", map[string]string{"token": ownerToken, "body": "notes"}, "media", "notes.txt", []byte("plain text")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image files are allowed!", message(t, rec))

	rec = s.serve(s.multipartReq("/post", map[string]string{"token": ownerToken, "body": "mine"}, "", "", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Post struct {
			ID string `json:"_id"`
		} `json:"post"`
	}
	decode(t, rec, &created)
	postID := created.Post.ID

	rec = s.json(http.MethodPost, "/comment", map[string]string{"token": otherToken, "post_id": postID, "commentBody": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment struct {
		Comment struct {
			ID string `json:"_id"`
		} `json:"comment"`
	}
	decode(t, rec, &comment)

	rec = s.json(http.MethodGet, "/get_comments?post_id="+postID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []struct {
		Body   string `json:"body"`
		UserID struct {
			Username string `json:"username"`
		} `json:"userId"`
	}
	decode(t, rec, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "other", comments[0].UserID.Username)

	rec = s.json(http.MethodDelete, "/delete_comment", map[string]string{"token": ownerToken, "post_id": postID, "comment_id": comment.Comment.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.json(http.MethodDelete, "/delete_comment", map[string]string{"token": otherToken, "post_id": postID, "comment_id": comment.Comment.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Comment deleted successfully", message(t, rec))

	rec = s.json(http.MethodDelete, "/delete_post", map[string]string{"token": otherToken, "post_id": postID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found or you do not have permission to delete this post", message(t, rec))

	rec = s.json(http.MethodDelete, "/delete_post", map[string]string{"token": ownerToken, "post_id": postID})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted successfully", message(t, rec))

	rec = s.json(http.MethodGet, "/get_comments?post_id="+postID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectionFlow(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.signup("alice")
	bobToken := s.signup("bob")

	rec := s.json(http.MethodGet, "/get_user_and_profile?token="+bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobProfile struct {
		UserID struct {
			ID string `json:"_id"`
		} `json:"userId"`
	}
	decode(t, rec, &bobProfile)
	bobID := bobProfile.UserID.ID

	rec = s.json(http.MethodPost, "/user/connection_request", map[string]string{"token": aliceToken, "connectionId": bobID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Connection request sent successfully", message(t, rec))

	rec = s.json(http.MethodPost, "/user/connection_request", map[string]string{"token": aliceToken, "connectionId": bobID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the bearer header is accepted in place of a token parameter
	req := httptest.NewRequest(http.MethodGet, "/user/user_connection_requests", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+bobToken)
	rec = s.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending struct {
		Connections []struct {
			ID     string `json:"_id"`
			UserID struct {
				Username string `json:"username"`
			} `json:"userId"`
		} `json:"connections"`
	}
	decode(t, rec, &pending)
	require.Len(t, pending.Connections, 1)
	assert.Equal(t, "alice", pending.Connections[0].UserID.Username)

	rec = s.json(http.MethodPost, "/user/accept_connection_request", map[string]string{
		"token": bobToken, "requestId": pending.Connections[0].ID, "action_type": "accept",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Connection request accepted", message(t, rec))

	for token, other := range map[string]string{aliceToken: "bob", bobToken: "alice"} {
		rec = s.json(http.MethodGet, "/user/get_connections?token="+token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Connections []struct {
				ConnectionID struct {
					Username string `json:"username"`
				} `json:"connectionId"`
				Status string `json:"status"`
			} `json:"connections"`
		}
		decode(t, rec, &list)
		require.Len(t, list.Connections, 1)
		assert.Equal(t, other, list.Connections[0].ConnectionID.Username)
		assert.Equal(t, "accepted", list.Connections[0].Status)
	}

	rec = s.json(http.MethodGet, "/user/get_connections?token=bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ada")
	s.signup("grace")

	rec := s.serve(s.multipartReq("/upload_profile_pic", map[string]string{"token": token}, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", message(t, rec))

	rec = s.serve(s.multipartReq("/upload_profile_pic", map[string]string{"token": "bogus"}, "profilePic", "me.png", png(t)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(s.multipartReq("/upload_profile_pic", map[string]string{"token": token}, "profilePic", "me.png", png(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var uploaded struct {
		File struct {
			Filename string `json:"filename"`
			MimeType string `json:"mimetype"`
		} `json:"file"`
	}
	decode(t, rec, &uploaded)
	assert.Equal(t, "image/jpeg", uploaded.File.MimeType)

	rec = s.json(http.MethodGet, "/"+uploaded.File.Filename, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(http.MethodPost, "/user_update", map[string]string{"token": token, "username": "grace"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already exists", message(t, rec))

	rec = s.json(http.MethodPost, "/user_update", map[string]string{"token": token, "name": "Ada Lovelace"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(http.MethodPost, "/update_profile_data", map[string]interface{}{"token": token, "bio": "Poetical science"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(http.MethodGet, "/user/get_profile_based_on_username?username=ada", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Bio    string `json:"bio"`
		UserID struct {
			Name       string `json:"name"`
			ProfilePic string `json:"profilePic"`
		} `json:"userId"`
	}
	decode(t, rec, &profile)
	assert.Equal(t, "Poetical science", profile.Bio)
	assert.Equal(t, "Ada Lovelace", profile.UserID.Name)
	assert.Equal(t, uploaded.File.Filename, profile.UserID.ProfilePic)

	rec = s.json(http.MethodGet, "/user/get_profile_based_on_username?username=nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(http.MethodGet, "/user/get_all_users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	decode(t, rec, &all)
	assert.Len(t, all, 2)

	rec = s.json(http.MethodPost, "/create_sample_posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Successfully created 6 sample posts", "createdCount": 6}`, rec.Body.String())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/anonto42/connectly/backend/internal/cache"
	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

// AuthOptions configures credential issuance. Cache and Identity are optional.
type AuthOptions struct {
	Secret string
	// TokenTTL of zero issues tokens that never expire.
	TokenTTL time.Duration
	Cache    TokenCache
	Identity IdentityVerifier
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *models.User
}

// AuthService registers accounts, issues credential tokens and resolves them.
type AuthService struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	secret   []byte
	tokenTTL time.Duration
	cache    TokenCache
	identity IdentityVerifier
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, profiles repositories.ProfileRepository, opts AuthOptions) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		secret:   []byte(opts.Secret),
		tokenTTL: opts.TokenTTL,
		cache:    opts.Cache,
		identity: opts.Identity,
		now:      time.Now,
	}
}

// FirebaseEnabled reports whether an identity verifier is configured.
func (s *AuthService) FirebaseEnabled() bool {
	return s.identity != nil
}

// Register creates an account and its seeded profile. Nothing is written when
// the email or username is already taken.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	taken, err := identityTaken(ctx, s.users, req.Email, req.Username, "")
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if taken {
		metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Name:       req.Name,
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		ProfilePic: models.DefaultProfilePic,
	}
	if err := s.createWithProfile(ctx, user); err != nil {
		if models.IsKind(err, models.KindConflict) {
			metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return user, nil
}

// Login checks the password and rotates the user's token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewValidationError(invalidCredentials)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewValidationError(invalidCredentials)
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return session, nil
}

// FirebaseLogin exchanges a verified Firebase ID token for a Connectly token.
// Unknown identities are linked to an account with the same email, or get a
// new account with a seeded profile.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.identity == nil {
		return nil, models.NewValidationError("Firebase login is not configured")
	}

	ident, err := s.identity.Verify(ctx, idToken)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("firebase_login", "invalid").Inc()
		return nil, models.NewUnauthorizedError("Invalid Firebase ID token")
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, ident.UID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		if user, err = s.linkOrCreate(ctx, ident); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewInternalError(err)
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("firebase_login", "success").Inc()
	return session, nil
}

// Resolve returns the user currently holding token. The token must carry a
// valid signature and still be the one stored on the user, so logging in
// again invalidates older tokens.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	if _, err := s.parseToken(token); err != nil {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	if user := s.resolveCached(ctx, token); user != nil {
		return user, nil
	}

	user, err := s.users.GetUserByToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, user.ID); err != nil {
			slog.WarnContext(ctx, "credential cache set failed", "error", err)
		}
	}
	return user, nil
}

// resolveCached returns nil on any miss. A hit is only trusted once the
// user's stored token still matches; otherwise the entry is evicted.
func (s *AuthService) resolveCached(ctx context.Context, token string) *models.User {
	if s.cache == nil {
		return nil
	}

	userID, err := s.cache.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			metrics.CredentialCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CredentialCacheLookups.WithLabelValues("error").Inc()
			slog.WarnContext(ctx, "credential cache get failed", "error", err)
		}
		return nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user.Token != token {
		metrics.CredentialCacheLookups.WithLabelValues("miss").Inc()
		if err := s.cache.Delete(ctx, token); err != nil {
			slog.WarnContext(ctx, "credential cache delete failed", "error", err)
		}
		return nil
	}
	metrics.CredentialCacheLookups.WithLabelValues("hit").Inc()
	return user
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*Session, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("sign token: %w", err))
	}

	previous := user.Token
	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Token = token

	if s.cache != nil && previous != "" {
		if err := s.cache.Delete(ctx, previous); err != nil {
			slog.WarnContext(ctx, "credential cache eviction failed", "user_id", user.ID, "error", err)
		}
	}
	return &Session{Token: token, User: user}, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.TokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) parseToken(raw string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// createWithProfile inserts user and its seeded profile. A failed profile
// insert leaves the user in place.
func (s *AuthService) createWithProfile(ctx context.Context, user *models.User) error {
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	if err := s.profiles.CreateProfile(ctx, models.NewSeededProfile(user.ID)); err != nil {
		slog.ErrorContext(ctx, "seeded profile creation failed", "user_id", user.ID, "error", err)
		return models.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) linkOrCreate(ctx context.Context, ident *models.ExternalIdentity) (*models.User, error) {
	if ident.Email == "" {
		return nil, models.NewValidationError("Firebase account has no email address")
	}

	user, err := s.users.GetUserByEmail(ctx, ident.Email)
	if err == nil {
		user.FirebaseUID = ident.UID
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, models.NewInternalError(err)
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewInternalError(err)
	}

	username, err := s.availableUsername(ctx, ident.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	name := ident.Name
	if name == "" {
		name = username
	}
	// The account can only be entered through Firebase until a password is set.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Name:        name,
		Username:    username,
		Email:       ident.Email,
		Password:    string(hash),
		ProfilePic:  models.DefaultProfilePic,
		FirebaseUID: ident.UID,
	}
	if err := s.createWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// availableUsername derives a free username from the local part of email.
func (s *AuthService) availableUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = usernameUnsafe.ReplaceAllString(base, "")
	if base == "" {
		base = "user"
	}

	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, repositories.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return "", fmt.Errorf("no free username for %q", base)
}

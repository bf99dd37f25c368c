package router

import (
	"log/slog"
	"time"

	"github.com/anonto42/connectly/backend/internal/handlers"
	"github.com/anonto42/connectly/backend/internal/middleware"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// Options carries everything SetupRoutes wires together. TokenCache and
// Identity are optional.
type Options struct {
	Store          *repositories.Store
	Blobs          storage.BlobStore
	TokenCache     services.TokenCache
	Identity       services.IdentityVerifier
	Env            string
	TokenSecret    string
	TokenTTL       time.Duration
	MaxUploadBytes int64
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, opts Options) {
	store := opts.Store

	// --- Services ---
	authService := services.NewAuthService(store.Users, store.Profiles, services.AuthOptions{
		Secret:   opts.TokenSecret,
		TokenTTL: opts.TokenTTL,
		Cache:    opts.TokenCache,
		Identity: opts.Identity,
	})
	profileService := services.NewProfileService(store.Users, store.Profiles, opts.Blobs, opts.MaxUploadBytes)
	connectionService := services.NewConnectionService(store.Connections, store.Users)
	postService := services.NewPostService(store.Posts, opts.Blobs, opts.MaxUploadBytes)
	feedService := services.NewFeedService(store.Posts, store.Likes, store.Users, authService)
	likeService := services.NewLikeService(store.Likes, store.Posts, authService)
	commentService := services.NewCommentService(store.Comments, store.Posts, store.Users)
	seedService := services.NewSeedService(store.Users, store.Posts)

	// Health check - always accessible
	handlers.NewHealthHandler(opts.Env).RegisterHealthRoutes(e)

	e.Use(middleware.Credentials())
	api := e.Group("")

	handlers.NewAuthHandler(authService).RegisterAuthRoutes(api)
	slog.Info("Auth routes configured.", "firebase", authService.FirebaseEnabled())

	handlers.NewUserHandler(authService, profileService).RegisterProfileRoutes(api)
	slog.Info("User profile routes configured.")

	handlers.NewConnectionHandler(authService, connectionService).RegisterConnectionRoutes(api.Group("/user"))
	slog.Info("Connection routes configured.")

	handlers.NewPostHandler(authService, postService).RegisterPostRoutes(api)
	slog.Info("Post routes configured.")

	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api)
	slog.Info("Feed routes configured.")

	handlers.NewCommentHandler(authService, commentService).RegisterCommentRoutes(api)
	slog.Info("Comment routes configured.")

	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api)
	slog.Info("Like routes configured.")

	handlers.NewSeedHandler(seedService).RegisterSeedRoutes(api)

	handlers.NewMediaHandler(opts.Blobs).RegisterMediaRoutes(e)
	slog.Info("Media routes configured.", "backend", opts.Blobs.Backend())

	slog.Info("All routes configured.")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/storage"
)

// ProfileService manages account details, profiles and profile pictures.
type ProfileService struct {
	users          repositories.UserRepository
	profiles       repositories.ProfileRepository
	blobs          storage.BlobStore
	maxUploadBytes int64
}

// NewProfileService creates a new ProfileService
func NewProfileService(users repositories.UserRepository, profiles repositories.ProfileRepository, blobs storage.BlobStore, maxUploadBytes int64) *ProfileService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = storage.MaxUploadBytes
	}
	return &ProfileService{users: users, profiles: profiles, blobs: blobs, maxUploadBytes: maxUploadBytes}
}

// GetUserAndProfile returns the profile of user with the user joined in.
func (s *ProfileService) GetUserAndProfile(ctx context.Context, user *models.User) (*models.ProfileView, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}
	return &models.ProfileView{Profile: *profile, UserID: user.ToCompact()}, nil
}

// UpdateUser applies the allow-listed account fields of req.
func (s *ProfileService) UpdateUser(ctx context.Context, user *models.User, req models.UpdateUserRequest) error {
	taken, err := identityTaken(ctx, s.users, req.Email, req.Username, user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if taken {
		return models.NewConflictError("Username or email already exists")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.NewConflictError("Username or email already exists")
		}
		return notFoundOr(err, "User not found")
	}
	return nil
}

// UpdateProfile applies the allow-listed profile fields of req.
func (s *ProfileService) UpdateProfile(ctx context.Context, user *models.User, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}

	req.Apply(profile)
	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, notFoundOr(err, "Profile not found")
	}
	return profile, nil
}

// UploadProfilePicture normalizes the image to a square JPEG, stores it and
// points the user's profilePic at it.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, user *models.User, header *multipart.FileHeader) (*models.UploadedFile, error) {
	upload, err := storage.ReadImage(header, s.maxUploadBytes)
	if err != nil {
		return nil, uploadError(err, s.maxUploadBytes)
	}

	data, err := storage.NormalizeAvatar(upload.Data)
	if err != nil {
		return nil, models.NewValidationError("Could not decode image")
	}

	name := storage.NewObjectName("image/jpeg")
	if err := s.blobs.Put(ctx, name, "image/jpeg", data); err != nil {
		return nil, models.NewInternalError(err)
	}
	metrics.MediaUploads.WithLabelValues(s.blobs.Backend(), "profile_pic").Inc()

	user.ProfilePic = name
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	slog.InfoContext(ctx, "profile picture updated", "user_id", user.ID, "file", name)

	return &models.UploadedFile{
		FieldName:    "profilePic",
		OriginalName: upload.OriginalName,
		MimeType:     "image/jpeg",
		Filename:     name,
		Size:         int64(len(data)),
	}, nil
}

// ListProfiles returns every profile with its user joined in.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.ProfileView, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	users, err := usersByID(ctx, s.users, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		view := models.ProfileView{Profile: p, UserID: models.UserCompact{ID: p.UserID}}
		if u, ok := users[p.UserID]; ok {
			view.UserID = u.ToCompact()
		}
		views = append(views, view)
	}
	return views, nil
}

// ProfileByUsername looks up a profile through its owner's username.
func (s *ProfileService) ProfileByUsername(ctx context.Context, username string) (*models.ProfileView, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return s.GetUserAndProfile(ctx, user)
}

func uploadError(err error, maxBytes int64) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return models.NewValidationError(fmt.Sprintf("File too large. Maximum size is %dMB.", maxBytes>>20))
	case errors.Is(err, storage.ErrNotAnImage):
		return models.NewValidationError("Only image files are allowed!")
	}
	return models.NewInternalError(err)
}

package repositories

import (
	"context"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

// MongoProfileRepository implements ProfileRepository for MongoDB
type MongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new MongoProfileRepository
func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection("profiles")}
}

func (r *MongoProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = newID()
	}
	normalizeProfile(profile)
	_, err := r.collection.InsertOne(ctx, profile)
	return translateError(err)
}

func (r *MongoProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := findOne(ctx, r.collection, bson.M{"userId": userID}, &profile); err != nil {
		return nil, err
	}
	normalizeProfile(&profile)
	return &profile, nil
}

func (r *MongoProfileRepository) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := findAll[models.Profile](ctx, r.collection, bson.M{})
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		normalizeProfile(&profiles[i])
	}
	return profiles, nil
}

// UpdateProfile replaces the stored profile document.
func (r *MongoProfileRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	normalizeProfile(profile)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = newID()
	}
	normalizeProfile(profile)
	return translateError(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *PostgresProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	normalizeProfile(&profile)
	return &profile, nil
}

func (r *PostgresProfileRepository) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	if err := r.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		normalizeProfile(&profiles[i])
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	normalizeProfile(profile)
	res := r.db.WithContext(ctx).Model(profile).
		Select("bio", "current_position", "location", "past_work", "education").
		Updates(profile)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeProfile keeps list fields non-nil so they encode as [] rather than null.
func normalizeProfile(p *models.Profile) {
	if p.PastWork == nil {
		p.PastWork = []models.WorkEntry{}
	}
	if p.Education == nil {
		p.Education = []models.EducationEntry{}
	}
}

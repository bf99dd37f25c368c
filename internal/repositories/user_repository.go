package repositories

import (
	"context"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SetToken(ctx context.Context, userID, token string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts the user, assigning an id and creation time when unset.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, user)
	return translateError(err)
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"username": username})
}

// GetUserByToken finds the holder of token. An empty token never matches.
func (r *MongoUserRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, bson.M{"token": token})
}

func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, bson.M{"firebaseUid": uid})
}

// GetUsersByIDs returns the users that exist among ids, in no particular order.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return findAll[models.User](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.collection, bson.M{})
}

// UpdateUser writes the mutable account fields of user.
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	update := bson.M{
		"$set": bson.M{
			"name":        user.Name,
			"username":    user.Username,
			"email":       user.Email,
			"profilePic":  user.ProfilePic,
			"firebaseUid": user.FirebaseUID,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetToken replaces the stored credential of a user.
func (r *MongoUserRepository) SetToken(ctx context.Context, userID, token string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"token": token}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) getOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.collection, filter, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.ProfilePic == "" {
		user.ProfilePic = models.DefaultProfilePic
	}
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

func (r *PostgresUserRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "token = ?", token)
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "firebase_uid = ?", uid)
}

func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).Updates(map[string]interface{}{
		"name":         user.Name,
		"username":     user.Username,
		"email":        user.Email,
		"profile_pic":  user.ProfilePic,
		"firebase_uid": user.FirebaseUID,
	})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetToken(ctx context.Context, userID, token string) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: userID}).Update("token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

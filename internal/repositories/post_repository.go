package repositories

import (
	"context"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// GetAllPosts returns every post, newest first.
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error)
	FindPostByUserAndBody(ctx context.Context, userID, body string) (*models.Post, error)
	// DeletePostByOwner removes post id only if userID authored it.
	DeletePostByOwner(ctx context.Context, id, userID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return translateError(err)
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return findAll[models.Post](ctx, r.collection, bson.M{}, options.Find().SetSort(newestFirst))
}

// GetPostsByUserID retrieves posts by a specific user from MongoDB
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	return findAll[models.Post](ctx, r.collection, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

func (r *MongoPostRepository) FindPostByUserAndBody(ctx context.Context, userID, body string) (*models.Post, error) {
	var post models.Post
	if err := findOne(ctx, r.collection, bson.M{"userId": userID, "body": body}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) DeletePostByOwner(ctx context.Context, id, userID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(post).Error)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) GetPostsByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) FindPostByUserAndBody(ctx context.Context, userID, body string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("user_id = ? AND body = ?", userID, body).First(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) DeletePostByOwner(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

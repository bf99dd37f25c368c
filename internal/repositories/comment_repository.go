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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	// GetCommentsByPostID returns the comments of a post, oldest first.
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	// DeleteCommentByOwner removes a comment only if it belongs to both userID and postID.
	DeleteCommentByOwner(ctx context.Context, id, userID, postID string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return translateError(err)
}

func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.Comment](ctx, r.collection, bson.M{"postId": postID}, opts)
}

func (r *MongoCommentRepository) DeleteCommentByOwner(ctx context.Context, id, userID, postID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID, "postId": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(comment).Error)
}

// GetCommentsByPostID retrieves all comments for a specific post from PostgreSQL
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at, id").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresCommentRepository) DeleteCommentByOwner(ctx context.Context, id, userID, postID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND post_id = ?", id, userID, postID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

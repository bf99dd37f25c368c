package repositories

import (
	"context"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// CreateLike returns ErrDuplicateKey if the pair is already a member.
	CreateLike(ctx context.Context, like *models.Like) error
	// DeleteLike reports whether a membership was removed.
	DeleteLike(ctx context.Context, postID, userID string) (bool, error)
	HasUserLikedPost(ctx context.Context, postID, userID string) (bool, error)
	CountLikesByPostID(ctx context.Context, postID string) (int64, error)
	// CountLikesByPostIDs omits posts without likes from the result.
	CountLikesByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = newID()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, like)
	return translateError(err)
}

func (r *MongoLikeRepository) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoLikeRepository) HasUserLikedPost(ctx context.Context, postID, userID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoLikeRepository) CountLikesByPostID(ctx context.Context, postID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"postId": postID})
}

func (r *MongoLikeRepository) CountLikesByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$postId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

func (r *MongoLikeRepository) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(postIDs) == 0 {
		return liked, nil
	}
	likes, err := findAll[models.Like](ctx, r.collection, bson.M{"userId": userID, "postId": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	for _, like := range likes {
		liked[like.PostID] = true
	}
	return liked, nil
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(like).Error)
}

// DeleteLike deletes a like from PostgreSQL
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) CountLikesByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLikeRepository) CountLikesByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

func (r *PostgresLikeRepository) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(postIDs) == 0 {
		return liked, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

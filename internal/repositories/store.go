package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches. A malformed id is
	// indistinguishable from a missing one.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Connections ConnectionRepository
	Posts       PostRepository
	Likes       LikeRepository
	Comments    CommentRepository
}

// NewMongoStore builds every repository on top of one Mongo database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:       NewMongoUserRepository(db),
		Profiles:    NewMongoProfileRepository(db),
		Connections: NewMongoConnectionRepository(db),
		Posts:       NewMongoPostRepository(db),
		Likes:       NewMongoLikeRepository(db),
		Comments:    NewMongoCommentRepository(db),
	}
}

// NewPostgresStore builds every repository on top of a gorm connection.
// The connection must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewPostgresStore(db *gorm.DB) *Store {
	return &Store{
		Users:       NewPostgresUserRepository(db),
		Profiles:    NewPostgresProfileRepository(db),
		Connections: NewPostgresConnectionRepository(db),
		Posts:       NewPostgresPostRepository(db),
		Likes:       NewPostgresLikeRepository(db),
		Comments:    NewPostgresCommentRepository(db),
	}
}

// AutoMigrate creates or updates the relational schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Connection{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	)
}

// EnsureIndexes creates the Mongo indexes the repositories rely on, most
// importantly the unique ones behind ErrDuplicateKey.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "token", Value: 1}}},
			{Keys: bson.D{{Key: "firebaseUid", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		"profiles": {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"connections": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "connectionId", Value: 1}}},
			{Keys: bson.D{{Key: "connectionId", Value: 1}, {Key: "status", Value: 1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"likes": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "postId", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// translateError maps driver errors onto the package sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

// findOne decodes the single document matching filter into out.
func findOne(ctx context.Context, collection *mongo.Collection, filter interface{}, out interface{}) error {
	return translateError(collection.FindOne(ctx, filter).Decode(out))
}

// findAll decodes every document matching filter. It never returns a nil slice.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

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

// ConnectionRepository defines the interface for connection request operations
type ConnectionRepository interface {
	CreateConnection(ctx context.Context, conn *models.Connection) error
	// GetConnectionByPair looks up the edge for the exact ordered pair.
	GetConnectionByPair(ctx context.Context, userID, connectionID string) (*models.Connection, error)
	// GetIncomingConnection returns request id only if recipientID is its target.
	GetIncomingConnection(ctx context.Context, id, recipientID string) (*models.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id string, status models.ConnectionStatus) error
	DeleteConnection(ctx context.Context, id string) error
	GetConnectionsBySender(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error)
	GetConnectionsByRecipient(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error)
}

// MongoConnectionRepository implements ConnectionRepository for MongoDB
type MongoConnectionRepository struct {
	collection *mongo.Collection
}

// NewMongoConnectionRepository creates a new MongoConnectionRepository
func NewMongoConnectionRepository(db *mongo.Database) *MongoConnectionRepository {
	return &MongoConnectionRepository{collection: db.Collection("connections")}
}

func (r *MongoConnectionRepository) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if conn.ID == "" {
		conn.ID = newID()
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}
	if conn.Status == "" {
		conn.Status = models.ConnectionPending
	}
	_, err := r.collection.InsertOne(ctx, conn)
	return translateError(err)
}

func (r *MongoConnectionRepository) GetConnectionByPair(ctx context.Context, userID, connectionID string) (*models.Connection, error) {
	return r.getOne(ctx, bson.M{"userId": userID, "connectionId": connectionID})
}

func (r *MongoConnectionRepository) GetIncomingConnection(ctx context.Context, id, recipientID string) (*models.Connection, error) {
	return r.getOne(ctx, bson.M{"_id": id, "connectionId": recipientID})
}

func (r *MongoConnectionRepository) UpdateConnectionStatus(ctx context.Context, id string, status models.ConnectionStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoConnectionRepository) DeleteConnection(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoConnectionRepository) GetConnectionsBySender(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error) {
	return r.list(ctx, bson.M{"userId": userID, "status": status})
}

func (r *MongoConnectionRepository) GetConnectionsByRecipient(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error) {
	return r.list(ctx, bson.M{"connectionId": userID, "status": status})
}

func (r *MongoConnectionRepository) getOne(ctx context.Context, filter bson.M) (*models.Connection, error) {
	var conn models.Connection
	if err := findOne(ctx, r.collection, filter, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *MongoConnectionRepository) list(ctx context.Context, filter bson.M) ([]models.Connection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.Connection](ctx, r.collection, filter, opts)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if conn.ID == "" {
		conn.ID = newID()
	}
	if conn.Status == "" {
		conn.Status = models.ConnectionPending
	}
	return translateError(r.db.WithContext(ctx).Create(conn).Error)
}

func (r *PostgresConnectionRepository) GetConnectionByPair(ctx context.Context, userID, connectionID string) (*models.Connection, error) {
	return r.getOne(ctx, "user_id = ? AND connection_id = ?", userID, connectionID)
}

func (r *PostgresConnectionRepository) GetIncomingConnection(ctx context.Context, id, recipientID string) (*models.Connection, error) {
	return r.getOne(ctx, "id = ? AND connection_id = ?", id, recipientID)
}

func (r *PostgresConnectionRepository) UpdateConnectionStatus(ctx context.Context, id string, status models.ConnectionStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Connection{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresConnectionRepository) DeleteConnection(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Connection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresConnectionRepository) GetConnectionsBySender(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error) {
	return r.list(ctx, "user_id = ? AND status = ?", userID, status)
}

func (r *PostgresConnectionRepository) GetConnectionsByRecipient(ctx context.Context, userID string, status models.ConnectionStatus) ([]models.Connection, error) {
	return r.list(ctx, "connection_id = ? AND status = ?", userID, status)
}

func (r *PostgresConnectionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).Where(query, args...).First(&conn).Error; err != nil {
		return nil, translateError(err)
	}
	return &conn, nil
}

func (r *PostgresConnectionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Connection, error) {
	conns := make([]models.Connection, 0)
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at, id").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

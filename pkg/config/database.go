package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/connectly/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the database connection of the configured store driver. Exactly
// one of Postgres and Mongo is set.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	Database *mongo.Database
}

// InitDB connects to the configured store and prepares its schema.
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	switch cfg.StoreDriver {
	case DriverPostgres:
		pg, err := initPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := repositories.AutoMigrate(pg); err != nil {
			return nil, fmt.Errorf("failed to auto migrate models: %w", err)
		}
		slog.Info("PostgreSQL auto-migrations completed.")
		return &DB{Postgres: pg}, nil

	case DriverMongo:
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.MongoDatabase)
		if err := repositories.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		slog.Info("MongoDB indexes ensured.", "database", cfg.MongoDatabase)
		return &DB{Mongo: client, Database: db}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Store builds the repositories on top of the open connection.
func (db *DB) Store() *repositories.Store {
	if db.Postgres != nil {
		return repositories.NewPostgresStore(db.Postgres)
	}
	return repositories.NewMongoStore(db.Database)
}

// initPostgres opens PostgreSQL with duplicate-key errors translated by gorm.
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	slog.Info("Successfully connected to PostgreSQL!")
	return db, nil
}

func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("Successfully connected to MongoDB!")
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			slog.Error("Error getting SQL DB from GORM", "error", err)
		} else if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing PostgreSQL connection", "error", err)
		} else {
			slog.Info("PostgreSQL connection closed.")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			slog.Error("Error closing MongoDB connection", "error", err)
		} else {
			slog.Info("MongoDB connection closed.")
		}
	}
}

package database

import (
	"context"
	"fmt"
	"log/slog"

	"launch-server/internal/shared/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB wraps the Mongo client and the application database handle
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func Connect() (*DB, error) {
	cfg := config.GlobalConfig
	logger := slog.With("component", "database", "operation", "connect")
	logger.Debug("Initializing database connection")

	logger.Info("Connecting to MongoDB",
		"database", cfg.Mongo.Database,
		"connect_timeout", cfg.Mongo.ConnectTimeout,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err, "database", cfg.Mongo.Database)
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	logger.Debug("Testing database connection with ping")
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Failed to ping MongoDB", "error", err, "database", cfg.Mongo.Database)
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			logger.Error("Failed to disconnect after ping failure", "disconnect_error", disconnectErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Database connection established successfully", "database", cfg.Mongo.Database)

	return &DB{
		client:   client,
		database: client.Database(cfg.Mongo.Database),
	}, nil
}

// Collection returns a handle to the named collection in the application database
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

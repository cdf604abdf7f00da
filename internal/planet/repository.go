package planet

import (
	"context"
	"errors"
	"log/slog"

	"launch-server/internal/shared/database"
	apperrors "launch-server/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository owns the planets collection handle.
type Repository struct {
	planets *mongo.Collection
	logger  *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		planets: db.Collection("planets"),
		logger:  logger,
	}
}

// EnsureIndexes creates the unique index on keplerName.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	logger := r.logger.With("component", "planet_repository", "operation", "ensure_indexes")
	logger.Debug("Ensuring planet indexes")

	_, err := r.planets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "keplerName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("Failed to create planet indexes", "error", err)
		return apperrors.WrapStorage("failed to create planet indexes", err)
	}
	return nil
}

// FindAll returns every stored planet ordered by name.
func (r *Repository) FindAll(ctx context.Context) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "find_all")
	logger.Debug("Listing planets")

	cursor, err := r.planets.Find(ctx, bson.D{},
		options.Find().
			SetProjection(bson.D{{Key: "_id", Value: 0}}).
			SetSort(bson.D{{Key: "keplerName", Value: 1}}),
	)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, apperrors.WrapStorage("failed to query planets", err)
	}

	var planets []Planet
	if err := cursor.All(ctx, &planets); err != nil {
		logger.Error("Failed to decode planets", "error", err)
		return nil, apperrors.WrapStorage("failed to decode planets", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

// Exists reports whether a planet with the given Kepler name is stored.
// Every call re-queries the collection.
func (r *Repository) Exists(ctx context.Context, keplerName string) (bool, error) {
	err := r.planets.FindOne(ctx,
		bson.M{"keplerName": keplerName},
		options.FindOne().SetProjection(bson.D{{Key: "keplerName", Value: 1}}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to check planet existence", "error", err, "kepler_name", keplerName)
		return false, apperrors.WrapStorage("failed to check planet existence", err)
	}
	return true, nil
}

// Upsert stores the planet keyed on its Kepler name, so reloading the
// reference dataset never duplicates records.
func (r *Repository) Upsert(ctx context.Context, planet Planet) error {
	_, err := r.planets.UpdateOne(ctx,
		bson.M{"keplerName": planet.KeplerName},
		bson.M{"$set": planet},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error("Failed to upsert planet", "error", err, "kepler_name", planet.KeplerName)
		return apperrors.WrapStorage("failed to upsert planet", err)
	}
	return nil
}

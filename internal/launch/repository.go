package launch

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

// counterID is the key of the flight number counter document.
const counterID = "flightNumber"

// Repository is the only component with direct access to the launches
// collection. Flight number sequencing lives here as well, backed by an
// atomically incremented counter document.
type Repository struct {
	launches *mongo.Collection
	counters *mongo.Collection
	logger   *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing launch repository")

	return &Repository{
		launches: db.Collection("launches"),
		counters: db.Collection("counters"),
		logger:   logger,
	}
}

// EnsureIndexes creates the unique index on flightNumber.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	logger := r.logger.With("component", "launch_repository", "operation", "ensure_indexes")
	logger.Debug("Ensuring launch indexes")

	_, err := r.launches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "flightNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("Failed to create launch indexes", "error", err)
		return apperrors.WrapStorage("failed to create launch indexes", err)
	}
	return nil
}

// FindAll returns all launches ordered by ascending flight number, with
// storage-only fields stripped from the projection.
func (r *Repository) FindAll(ctx context.Context, p Pagination) ([]Launch, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "find_all", "skip", p.Skip, "limit", p.Limit)
	logger.Debug("Listing launches")

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}}).
		SetSort(bson.D{{Key: "flightNumber", Value: 1}})
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cursor, err := r.launches.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error("Failed to query launches", "error", err)
		return nil, apperrors.WrapStorage("failed to query launches", err)
	}

	var records []launchRecord
	if err := cursor.All(ctx, &records); err != nil {
		logger.Error("Failed to decode launches", "error", err)
		return nil, apperrors.WrapStorage("failed to decode launches", err)
	}

	launches := make([]Launch, 0, len(records))
	for _, record := range records {
		launches = append(launches, record.launch())
	}

	logger.Debug("Launches retrieved", "count", len(launches))
	return launches, nil
}

// Exists reports whether a launch with the given flight number exists.
func (r *Repository) Exists(ctx context.Context, flightNumber int) (bool, error) {
	err := r.launches.FindOne(ctx,
		bson.M{"flightNumber": flightNumber},
		options.FindOne().SetProjection(bson.D{{Key: "flightNumber", Value: 1}}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to check launch existence", "error", err, "flight_number", flightNumber)
		return false, apperrors.WrapStorage("failed to check launch existence", err)
	}
	return true, nil
}

// FindLatest returns the launch with the highest flight number, or nil
// when the collection is empty.
func (r *Repository) FindLatest(ctx context.Context) (*Launch, error) {
	var record launchRecord
	err := r.launches.FindOne(ctx, bson.D{},
		options.FindOne().
			SetSort(bson.D{{Key: "flightNumber", Value: -1}}).
			SetProjection(bson.D{{Key: "_id", Value: 0}}),
	).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find latest launch", "error", err)
		return nil, apperrors.WrapStorage("failed to find latest launch", err)
	}

	launch := record.launch()
	return &launch, nil
}

// Save upserts the launch keyed on its flight number. Saving the same
// launch twice leaves a single stored record.
func (r *Repository) Save(ctx context.Context, launch Launch) error {
	logger := r.logger.With("component", "launch_repository", "operation", "save", "flight_number", launch.FlightNumber)
	logger.Debug("Saving launch")

	_, err := r.launches.UpdateOne(ctx,
		bson.M{"flightNumber": launch.FlightNumber},
		bson.M{"$set": launch.record()},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		logger.Error("Failed to save launch", "error", err)
		return apperrors.WrapStorage("failed to save launch", err)
	}

	logger.Debug("Launch saved")
	return nil
}

// Abort marks the launch as no longer upcoming and unsuccessful. It
// returns true iff exactly one record was modified, so aborting an
// already-aborted launch reports false. The record is never deleted.
func (r *Repository) Abort(ctx context.Context, flightNumber int) (bool, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "abort", "flight_number", flightNumber)
	logger.Debug("Aborting launch")

	result, err := r.launches.UpdateOne(ctx,
		bson.M{"flightNumber": flightNumber},
		bson.M{"$set": bson.M{"upcoming": false, "success": false}},
	)
	if err != nil {
		logger.Error("Failed to abort launch", "error", err)
		return false, apperrors.WrapStorage("failed to abort launch", err)
	}

	logger.Info("Launch abort applied", "modified_count", result.ModifiedCount)
	return result.ModifiedCount == 1, nil
}

// NextFlightNumber atomically increments and returns the flight number
// counter. findAndModify is atomic per document, so two concurrent
// schedule requests can never draw the same number.
func (r *Repository) NextFlightNumber(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		r.logger.Error("Failed to increment flight number counter", "error", err)
		return 0, apperrors.WrapStorage("failed to increment flight number counter", err)
	}
	return counter.Seq, nil
}

// SeedCounter raises the flight number counter to at least the highest
// stored flight number, or the default baseline when the collection is
// empty. $max keeps this idempotent across reboots.
func (r *Repository) SeedCounter(ctx context.Context) error {
	logger := r.logger.With("component", "launch_repository", "operation", "seed_counter")

	base := DefaultFlightNumber
	latest, err := r.FindLatest(ctx)
	if err != nil {
		return err
	}
	if latest != nil && latest.FlightNumber > base {
		base = latest.FlightNumber
	}

	_, err = r.counters.UpdateOne(ctx,
		bson.M{"_id": counterID},
		bson.M{"$max": bson.M{"seq": base}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		logger.Error("Failed to seed flight number counter", "error", err, "base", base)
		return apperrors.WrapStorage("failed to seed flight number counter", err)
	}

	logger.Debug("Flight number counter seeded", "base", base)
	return nil
}

package planet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// PlanetStore is the storage access the service depends on. The Mongo
// Repository implements it; tests substitute an in-memory fake.
type PlanetStore interface {
	FindAll(ctx context.Context) ([]Planet, error)
	Exists(ctx context.Context, keplerName string) (bool, error)
	Upsert(ctx context.Context, planet Planet) error
}

type Service struct {
	store  PlanetStore
	logger *slog.Logger
}

func NewService(store PlanetStore, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		store:  store,
		logger: logger,
	}
}

// GetAll returns every stored habitable planet.
func (s *Service) GetAll(ctx context.Context) ([]Planet, error) {
	return s.store.FindAll(ctx)
}

// Exists reports whether a planet with the given Kepler name is stored.
func (s *Service) Exists(ctx context.Context, keplerName string) (bool, error) {
	return s.store.Exists(ctx, keplerName)
}

// LoadFromCSV streams the Kepler cumulative export, keeps the habitable
// rows, and upserts each into the planets collection. Returns the number
// of habitable planets found.
func (s *Service) LoadFromCSV(ctx context.Context, path string) (int, error) {
	logger := s.logger.With("component", "planet_service", "operation", "load_csv", "path", path)
	logger.Debug("Loading planets reference dataset")

	file, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open planets dataset", "error", err)
		return 0, fmt.Errorf("failed to open planets dataset: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Error("Failed to close planets dataset", "error", err)
		}
	}()

	count, err := s.loadFromReader(ctx, file)
	if err != nil {
		return 0, err
	}

	logger.Info("Habitable planets loaded", "count", count)
	return count, nil
}

func (s *Service) loadFromReader(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read planets dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"kepler_name", "koi_disposition", "koi_insol", "koi_prad"} {
		if _, ok := columns[required]; !ok {
			return 0, fmt.Errorf("planets dataset is missing column %q", required)
		}
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read planets dataset row: %w", err)
		}

		disposition := row[columns["koi_disposition"]]
		insolation, insolErr := strconv.ParseFloat(row[columns["koi_insol"]], 64)
		radius, radErr := strconv.ParseFloat(row[columns["koi_prad"]], 64)
		if insolErr != nil || radErr != nil {
			// Unconfirmed candidates often lack these measurements.
			continue
		}

		if !Habitable(disposition, insolation, radius) {
			continue
		}

		planet := Planet{
			KeplerName:  row[columns["kepler_name"]],
			Disposition: disposition,
			Insolation:  insolation,
			Radius:      radius,
		}
		if err := s.store.Upsert(ctx, planet); err != nil {
			return 0, err
		}
		count++
	}

	return count, nil
}

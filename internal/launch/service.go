package launch

import (
	"context"
	"log/slog"

	apperrors "launch-server/internal/shared/errors"
)

// LaunchStore is the storage access the scheduler depends on. The Mongo
// Repository implements it; tests substitute an in-memory fake.
type LaunchStore interface {
	FindAll(ctx context.Context, p Pagination) ([]Launch, error)
	Exists(ctx context.Context, flightNumber int) (bool, error)
	NextFlightNumber(ctx context.Context) (int, error)
	Save(ctx context.Context, launch Launch) error
	Abort(ctx context.Context, flightNumber int) (bool, error)
}

// PlanetGate answers whether a target planet exists. Reads go straight
// to the planets collection; nothing is cached.
type PlanetGate interface {
	Exists(ctx context.Context, keplerName string) (bool, error)
}

// Service validates and assembles new launches and orchestrates aborts.
// It holds no storage state of its own.
type Service struct {
	store   LaunchStore
	planets PlanetGate
	logger  *slog.Logger
}

func NewService(store LaunchStore, planets PlanetGate, logger *slog.Logger) *Service {
	logger.Debug("Initializing launch service")

	return &Service{
		store:   store,
		planets: planets,
		logger:  logger,
	}
}

// ListLaunches returns launches ordered by flight number.
func (s *Service) ListLaunches(ctx context.Context, p Pagination) ([]Launch, error) {
	return s.store.FindAll(ctx, p)
}

// ScheduleNewLaunch validates the target against the planets collection,
// assigns the next flight number, and persists the assembled launch.
// Customers and lifecycle state are always server-assigned; anything the
// client supplied for them is discarded before this point. Every failure
// propagates to the caller.
func (s *Service) ScheduleNewLaunch(ctx context.Context, req ScheduleRequest) (*Launch, error) {
	logger := s.logger.With("component", "launch_service", "operation", "schedule", "target", req.Target)
	logger.Debug("Scheduling new launch")

	exists, err := s.planets.Exists(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.Referential("No matching planet found.")
	}

	flightNumber, err := s.store.NextFlightNumber(ctx)
	if err != nil {
		return nil, err
	}

	launch := Launch{
		FlightNumber: flightNumber,
		Mission:      req.Mission,
		Rocket:       req.Rocket,
		LaunchDate:   req.LaunchDate,
		Target:       req.Target,
		Customers:    append([]string(nil), DefaultCustomers...),
		Status:       StatusScheduled,
	}

	if err := s.store.Save(ctx, launch); err != nil {
		return nil, err
	}

	logger.Info("Launch scheduled", "flight_number", launch.FlightNumber, "mission", launch.Mission)
	return &launch, nil
}

// AbortLaunch marks the launch aborted. An unknown flight number is a
// not-found error; re-aborting an already-aborted launch is a conflict.
func (s *Service) AbortLaunch(ctx context.Context, flightNumber int) error {
	logger := s.logger.With("component", "launch_service", "operation", "abort", "flight_number", flightNumber)
	logger.Debug("Aborting launch")

	exists, err := s.store.Exists(ctx, flightNumber)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("Launch not found.")
	}

	aborted, err := s.store.Abort(ctx, flightNumber)
	if err != nil {
		return err
	}
	if !aborted {
		return apperrors.Conflict("Launch not aborted.")
	}

	logger.Info("Launch aborted")
	return nil
}

// EnsureSeedLaunch upserts the canonical first launch. Safe to call on
// every boot.
func (s *Service) EnsureSeedLaunch(ctx context.Context) error {
	return s.store.Save(ctx, SeedLaunch())
}

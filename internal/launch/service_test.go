package launch

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "launch-server/internal/shared/errors"
)

// fakeLaunchStore mirrors the Mongo repository's semantics in memory:
// upsert keyed on flight number, modified-count abort, atomic counter.
type fakeLaunchStore struct {
	launches map[int]Launch
	counter  int
	saveErr  error
	saves    int
}

func newFakeLaunchStore() *fakeLaunchStore {
	return &fakeLaunchStore{
		launches: make(map[int]Launch),
		counter:  DefaultFlightNumber,
	}
}

func (f *fakeLaunchStore) FindAll(ctx context.Context, p Pagination) ([]Launch, error) {
	all := make([]Launch, 0, len(f.launches))
	for _, l := range f.launches {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FlightNumber < all[j].FlightNumber })

	if p.Skip > 0 {
		if p.Skip >= int64(len(all)) {
			return []Launch{}, nil
		}
		all = all[p.Skip:]
	}
	if p.Limit > 0 && p.Limit < int64(len(all)) {
		all = all[:p.Limit]
	}
	return all, nil
}

func (f *fakeLaunchStore) Exists(ctx context.Context, flightNumber int) (bool, error) {
	_, ok := f.launches[flightNumber]
	return ok, nil
}

func (f *fakeLaunchStore) NextFlightNumber(ctx context.Context) (int, error) {
	f.counter++
	return f.counter, nil
}

func (f *fakeLaunchStore) Save(ctx context.Context, launch Launch) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.launches[launch.FlightNumber] = launch
	return nil
}

func (f *fakeLaunchStore) Abort(ctx context.Context, flightNumber int) (bool, error) {
	l, ok := f.launches[flightNumber]
	if !ok || l.Status == StatusAborted {
		// Matching the storage engine: no document changed.
		return false, nil
	}
	l.Status = StatusAborted
	f.launches[flightNumber] = l
	return true, nil
}

type fakePlanetGate struct {
	planets map[string]bool
	queries int
}

func (f *fakePlanetGate) Exists(ctx context.Context, keplerName string) (bool, error) {
	f.queries++
	return f.planets[keplerName], nil
}

func newTestService(store *fakeLaunchStore, gate *fakePlanetGate) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, gate, logger)
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		Mission:    "Kepler Exploration X",
		Rocket:     "Explorer IS1",
		LaunchDate: time.Date(2030, time.December, 27, 0, 0, 0, 0, time.UTC),
		Target:     "Kepler-442 b",
	}
}

func TestScheduleNewLaunchAssignsSequentialFlightNumbers(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		scheduled, err := service.ScheduleNewLaunch(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, DefaultFlightNumber+1+i, scheduled.FlightNumber)
		assert.False(t, seen[scheduled.FlightNumber], "flight number %d assigned twice", scheduled.FlightNumber)
		seen[scheduled.FlightNumber] = true
	}
}

func TestScheduleNewLaunchOverridesServerFields(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	scheduled, err := service.ScheduleNewLaunch(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, scheduled.Status)
	assert.Equal(t, DefaultCustomers, scheduled.Customers)

	stored := store.launches[scheduled.FlightNumber]
	assert.Equal(t, *scheduled, stored)
}

func TestScheduleNewLaunchUnknownTarget(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{}}
	service := newTestService(store, gate)

	req := validRequest()
	req.Target = "Nonexistent-1b"

	scheduled, err := service.ScheduleNewLaunch(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, scheduled)
	assert.Equal(t, apperrors.ErrorTypeReferential, apperrors.GetType(err))

	// The referential check must happen before any write.
	assert.Equal(t, 0, store.saves)
	assert.Empty(t, store.launches)
}

func TestScheduleNewLaunchPropagatesSaveError(t *testing.T) {
	store := newFakeLaunchStore()
	store.saveErr = apperrors.WrapStorage("connection reset", nil)
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	scheduled, err := service.ScheduleNewLaunch(context.Background(), validRequest())
	require.Error(t, err)
	assert.Nil(t, scheduled)
	assert.Equal(t, apperrors.ErrorTypeStorage, apperrors.GetType(err))
}

func TestEnsureSeedLaunchIsIdempotent(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	require.NoError(t, service.EnsureSeedLaunch(context.Background()))
	require.NoError(t, service.EnsureSeedLaunch(context.Background()))

	launches, err := service.ListLaunches(context.Background(), Pagination{})
	require.NoError(t, err)
	require.Len(t, launches, 1)
	assert.Equal(t, DefaultFlightNumber, launches[0].FlightNumber)
	assert.Equal(t, "Kepler Exploration X", launches[0].Mission)
}

func TestAbortLaunchLifecycle(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	scheduled, err := service.ScheduleNewLaunch(context.Background(), validRequest())
	require.NoError(t, err)

	// First abort flips the record.
	require.NoError(t, service.AbortLaunch(context.Background(), scheduled.FlightNumber))
	assert.Equal(t, StatusAborted, store.launches[scheduled.FlightNumber].Status)

	// Second abort finds the record but modifies nothing.
	err = service.AbortLaunch(context.Background(), scheduled.FlightNumber)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetType(err))

	// The record is never deleted.
	_, stored := store.launches[scheduled.FlightNumber]
	assert.True(t, stored)
}

func TestAbortLaunchUnknownFlightNumber(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{}}
	service := newTestService(store, gate)

	err := service.AbortLaunch(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetType(err))
}

func TestListLaunchesPagination(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	require.NoError(t, service.EnsureSeedLaunch(context.Background()))
	for i := 0; i < 4; i++ {
		_, err := service.ScheduleNewLaunch(context.Background(), validRequest())
		require.NoError(t, err)
	}

	all, err := service.ListLaunches(context.Background(), NewPagination(1, 0))
	require.NoError(t, err)
	require.Len(t, all, 5)

	page, err := service.ListLaunches(context.Background(), NewPagination(2, 2))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 102, page[0].FlightNumber)
	assert.Equal(t, 103, page[1].FlightNumber)
}

func TestScheduleAndAbortEndToEnd(t *testing.T) {
	store := newFakeLaunchStore()
	gate := &fakePlanetGate{planets: map[string]bool{"Kepler-442 b": true}}
	service := newTestService(store, gate)

	require.NoError(t, service.EnsureSeedLaunch(context.Background()))

	launchDate, err := ParseLaunchDate("January 4, 2028")
	require.NoError(t, err)

	scheduled, err := service.ScheduleNewLaunch(context.Background(), ScheduleRequest{
		Mission:    "USS Enterprise",
		Rocket:     "NCC 1701-D",
		LaunchDate: launchDate,
		Target:     "Kepler-442 b",
	})
	require.NoError(t, err)

	assert.Equal(t, 101, scheduled.FlightNumber)
	assert.Equal(t, StatusScheduled, scheduled.Status)
	assert.True(t, scheduled.LaunchDate.Equal(time.Date(2028, time.January, 4, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, service.AbortLaunch(context.Background(), 101))

	err = service.AbortLaunch(context.Background(), 101)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetType(err))
}

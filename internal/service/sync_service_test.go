package service

import (
	"context"
	"testing"

	"cafe-finder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCafeCollector is a mock implementation of the CafeCollector interface
type MockCafeCollector struct {
	mock.Mock
}

func (m *MockCafeCollector) Collect(ctx context.Context, bounds models.Bounds) ([]models.Cafe, CollectStats, error) {
	args := m.Called(ctx, bounds)
	if args.Get(0) == nil {
		return nil, args.Get(1).(CollectStats), args.Error(2)
	}
	return args.Get(0).([]models.Cafe), args.Get(1).(CollectStats), args.Error(2)
}

// MockCafeStore is a mock implementation of the CafeStore interface
type MockCafeStore struct {
	mock.Mock
}

func (m *MockCafeStore) UpsertCafe(ctx context.Context, cafe models.Cafe) error {
	args := m.Called(ctx, cafe)
	return args.Error(0)
}

// memoryStore keys rows by place id, like the unique column in Postgres.
type memoryStore struct {
	rows map[string]models.Cafe
}

func (s *memoryStore) UpsertCafe(ctx context.Context, cafe models.Cafe) error {
	s.rows[cafe.GooglePlaceID] = cafe
	return nil
}

func TestSyncService_Run(t *testing.T) {
	cafes := []models.Cafe{
		{GooglePlaceID: "a", Name: "Words Coffee"},
		{GooglePlaceID: "b", Name: "Balzac's"},
		{GooglePlaceID: "c", Name: "Settlement Co."},
	}

	tests := []struct {
		name          string
		failing       map[string]bool
		wantSucceeded int
		wantFailed    int
	}{
		{name: "all upserts succeed", failing: map[string]bool{}, wantSucceeded: 3, wantFailed: 0},
		{name: "one upsert fails", failing: map[string]bool{"b": true}, wantSucceeded: 2, wantFailed: 1},
		{name: "every upsert fails", failing: map[string]bool{"a": true, "b": true, "c": true}, wantSucceeded: 0, wantFailed: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := new(MockCafeCollector)
			collector.On("Collect", mock.Anything, models.KitchenerWaterlooBounds).
				Return(cafes, CollectStats{AreasSearched: 30, AreasFailed: 1, ChainsFiltered: 4}, nil)

			store := new(MockCafeStore)
			for _, c := range cafes {
				if tt.failing[c.GooglePlaceID] {
					store.On("UpsertCafe", mock.Anything, c).Return(assert.AnError).Once()
				} else {
					store.On("UpsertCafe", mock.Anything, c).Return(nil).Once()
				}
			}

			summary, err := NewSyncService(collector, store, models.KitchenerWaterlooBounds).Run(context.Background())
			require.NoError(t, err)

			assert.NotEmpty(t, summary.RunID)
			assert.Equal(t, 3, summary.Collected)
			assert.Equal(t, tt.wantSucceeded, summary.Succeeded)
			assert.Equal(t, tt.wantFailed, summary.Failed)
			assert.Equal(t, 30, summary.AreasSearched)
			assert.Equal(t, 1, summary.AreasFailed)
			assert.Equal(t, 4, summary.ChainsFiltered)

			// every record is attempted, in order, even after a failure
			store.AssertNumberOfCalls(t, "UpsertCafe", 3)
			collector.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestSyncService_Run_CollectError(t *testing.T) {
	collector := new(MockCafeCollector)
	collector.On("Collect", mock.Anything, models.KitchenerWaterlooBounds).
		Return(nil, CollectStats{}, assert.AnError)
	store := new(MockCafeStore)

	_, err := NewSyncService(collector, store, models.KitchenerWaterlooBounds).Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	store.AssertNotCalled(t, "UpsertCafe", mock.Anything, mock.Anything)
}

func TestSyncService_Run_DryRun(t *testing.T) {
	collector := new(MockCafeCollector)
	collector.On("Collect", mock.Anything, models.KitchenerWaterlooBounds).
		Return([]models.Cafe{{GooglePlaceID: "a"}}, CollectStats{AreasSearched: 1}, nil)
	store := new(MockCafeStore)

	summary, err := NewSyncService(collector, store, models.KitchenerWaterlooBounds).WithDryRun(true).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Collected)
	assert.Equal(t, 0, summary.Succeeded)
	store.AssertNotCalled(t, "UpsertCafe", mock.Anything, mock.Anything)
}

func TestSyncService_Run_Idempotent(t *testing.T) {
	searcher := new(MockPlacesSearcher)
	searcher.On("Search", mock.Anything, areaWest).Return([]models.RawPlace{
		place("a", "Words Coffee"),
		place("b", "Balzac's"),
	}, nil)
	searcher.On("Search", mock.Anything, areaEast).Return([]models.RawPlace{
		place("b", "Balzac's"),
	}, nil)

	store := &memoryStore{rows: map[string]models.Cafe{}}
	svc := NewSyncService(newTestAggregator(searcher, &countingPacer{}), store, twoAreaBounds)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Succeeded)
	assert.Len(t, store.rows, 2)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Succeeded)
	assert.Len(t, store.rows, 2)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSyncService_Run_PartialAreaFailure(t *testing.T) {
	searcher := new(MockPlacesSearcher)
	searcher.On("Search", mock.Anything, areaWest).Return(nil, assert.AnError)
	searcher.On("Search", mock.Anything, areaEast).Return([]models.RawPlace{
		place("c", "Settlement Co."),
	}, nil)

	store := &memoryStore{rows: map[string]models.Cafe{}}
	summary, err := NewSyncService(newTestAggregator(searcher, &countingPacer{}), store, twoAreaBounds).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.AreasFailed)
	assert.Contains(t, store.rows, "c")
}

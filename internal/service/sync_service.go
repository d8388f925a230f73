package service

import (
	"context"
	"fmt"
	"time"

	"cafe-finder/internal/metrics"
	"cafe-finder/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CafeCollector gathers normalized cafes for a region.
type CafeCollector interface {
	Collect(ctx context.Context, bounds models.Bounds) ([]models.Cafe, CollectStats, error)
}

// CafeStore persists cafes keyed by their Google place id.
type CafeStore interface {
	UpsertCafe(ctx context.Context, cafe models.Cafe) error
}

// SyncSummary is the tally of one sync run.
type SyncSummary struct {
	RunID          string
	Collected      int
	Succeeded      int
	Failed         int
	AreasSearched  int
	AreasFailed    int
	ChainsFiltered int
	Duration       time.Duration
}

// SyncService runs the end to end sync: collect, then upsert every cafe.
type SyncService struct {
	collector CafeCollector
	store     CafeStore
	bounds    models.Bounds
	dryRun    bool
}

// NewSyncService creates a new sync service
func NewSyncService(collector CafeCollector, store CafeStore, bounds models.Bounds) *SyncService {
	return &SyncService{collector: collector, store: store, bounds: bounds}
}

// WithDryRun makes Run collect without writing to the store.
func (s *SyncService) WithDryRun(dryRun bool) *SyncService {
	s.dryRun = dryRun
	return s
}

// Run performs one sync. Upserts are sequential and independent: a failed
// record is counted and logged, and the run moves on. Run only returns an
// error when collection itself fails.
func (s *SyncService) Run(ctx context.Context) (SyncSummary, error) {
	start := time.Now()
	summary := SyncSummary{RunID: uuid.NewString()}

	logger := log.With().Str("run_id", summary.RunID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Bool("dry_run", s.dryRun).Msg("starting cafe sync")

	cafes, stats, err := s.collector.Collect(ctx, s.bounds)
	if err != nil {
		return summary, fmt.Errorf("service: failed to collect cafes: %w", err)
	}
	summary.Collected = len(cafes)
	summary.AreasSearched = stats.AreasSearched
	summary.AreasFailed = stats.AreasFailed
	summary.ChainsFiltered = stats.ChainsFiltered

	for _, cafe := range cafes {
		if s.dryRun {
			logger.Info().Str("place_id", cafe.GooglePlaceID).Str("name", cafe.Name).Msg("would sync")
			continue
		}

		if err := s.store.UpsertCafe(ctx, cafe); err != nil {
			summary.Failed++
			metrics.Upserts.WithLabelValues("error").Inc()
			logger.Error().Err(err).Str("place_id", cafe.GooglePlaceID).Str("name", cafe.Name).Msg("failed to sync cafe")
			continue
		}
		summary.Succeeded++
		metrics.Upserts.WithLabelValues("ok").Inc()
		logger.Debug().Str("place_id", cafe.GooglePlaceID).Str("name", cafe.Name).Msg("synced cafe")
	}

	summary.Duration = time.Since(start)
	metrics.LastSyncTimestamp.SetToCurrentTime()

	logger.Info().
		Int("collected", summary.Collected).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("areas_searched", summary.AreasSearched).
		Int("areas_failed", summary.AreasFailed).
		Int("chains_filtered", summary.ChainsFiltered).
		Dur("duration", summary.Duration).
		Msg("sync completed")

	return summary, nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cafe-finder/internal/metrics"
	"cafe-finder/internal/models"
	"cafe-finder/internal/tiling"

	"github.com/rs/zerolog"
)

// PlacesSearcher runs one nearby search.
type PlacesSearcher interface {
	Search(ctx context.Context, area models.SearchArea) ([]models.RawPlace, error)
}

// Pacer gates consecutive remote requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

// CollectStats describes what happened during one Collect call.
type CollectStats struct {
	AreasSearched  int
	AreasFailed    int
	ChainsFiltered int
}

// Aggregator walks every search area of a region and merges the results into
// one deduplicated, chain-free list of cafes.
type Aggregator struct {
	searcher PlacesSearcher
	pacer    Pacer
	grid     tiling.Grid
	now      func() time.Time
}

// NewAggregator creates a new aggregator
func NewAggregator(searcher PlacesSearcher, pacer Pacer, grid tiling.Grid) *Aggregator {
	return &Aggregator{
		searcher: searcher,
		pacer:    pacer,
		grid:     grid,
		now:      time.Now,
	}
}

// Collect searches bounds area by area, one request at a time. A failing area
// is logged and skipped; only a bad grid or a cancelled context is an error.
func (a *Aggregator) Collect(ctx context.Context, bounds models.Bounds) ([]models.Cafe, CollectStats, error) {
	var stats CollectStats
	logger := zerolog.Ctx(ctx)

	areas, err := tiling.Generate(bounds, a.grid)
	if err != nil {
		return nil, stats, fmt.Errorf("service: failed to generate search areas: %w", err)
	}

	logger.Info().
		Int("areas", len(areas)).
		Float64("south", bounds.South).
		Float64("north", bounds.North).
		Float64("west", bounds.West).
		Float64("east", bounds.East).
		Msg("created search areas")

	byID := make(map[string]models.RawPlace)
	for i, area := range areas {
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, stats, fmt.Errorf("service: search interrupted at area %d: %w", i+1, err)
		}

		areaLog := logger.With().
			Int("area", i+1).
			Int("of", len(areas)).
			Float64("lat", area.Center.Latitude).
			Float64("lng", area.Center.Longitude).
			Logger()

		found, err := a.searcher.Search(ctx, area)
		stats.AreasSearched++
		if err != nil {
			stats.AreasFailed++
			metrics.AreaSearches.WithLabelValues("error").Inc()
			areaLog.Error().Err(err).Msg("area search failed")
			continue
		}
		metrics.AreaSearches.WithLabelValues("ok").Inc()

		kept := 0
		for _, p := range found {
			if IsChain(p.Name()) {
				stats.ChainsFiltered++
				metrics.ChainsFiltered.Inc()
				areaLog.Debug().Str("name", p.Name()).Msg("filtered out chain")
				continue
			}
			byID[p.ID] = p
			kept++
		}

		areaLog.Info().Int("found", len(found)).Int("independent", kept).Msg("area searched")
	}

	now := a.now()
	cafes := make([]models.Cafe, 0, len(byID))
	for _, p := range byID {
		cafes = append(cafes, Normalize(p, now))
	}
	sort.Slice(cafes, func(i, j int) bool {
		return cafes[i].GooglePlaceID < cafes[j].GooglePlaceID
	})

	logger.Info().Int("unique", len(cafes)).Msg("collected independent cafes")

	return cafes, stats, nil
}

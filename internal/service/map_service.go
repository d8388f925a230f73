package service

import (
	"context"

	"cafe-finder/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// CafePinRepository reads the marker projection of stored cafes.
type CafePinRepository interface {
	ListCafePins(ctx context.Context, within *models.Bounds) ([]models.CafePin, error)
}

// MapService turns stored cafes into map features.
type MapService struct {
	repo CafePinRepository
}

// NewMapService creates a new map service
func NewMapService(repo CafePinRepository) *MapService {
	return &MapService{repo: repo}
}

// FeatureCollection returns one point feature per stored cafe, optionally
// limited to within. A store failure is logged and yields an empty
// collection so the map still renders.
func (s *MapService) FeatureCollection(ctx context.Context, within *models.Bounds) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	pins, err := s.repo.ListCafePins(ctx, within)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cafe locations")
		return fc, err
	}

	if len(pins) == 0 {
		log.Info().Msg("no cafe locations found")
		return fc, nil
	}

	for _, pin := range pins {
		f := geojson.NewFeature(orb.Point{pin.Longitude, pin.Latitude})
		f.Properties["id"] = pin.ID
		f.Properties["name"] = pin.Name
		fc.Append(f)
	}

	return fc, nil
}

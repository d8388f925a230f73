package handler

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"cafe-finder/internal/metrics"
	"cafe-finder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

//go:embed templates/map.html
var templatesFS embed.FS

// DefaultCenter is the University of Waterloo.
var DefaultCenter = models.LatLng{Latitude: 43.4723, Longitude: -80.5448}

const (
	defaultZoom  = 15
	feedPath     = "/cafes.geojson"
	feedCacheTTL = 30 * time.Second
)

// MapService interface for dependency injection
type MapService interface {
	FeatureCollection(ctx context.Context, within *models.Bounds) (*geojson.FeatureCollection, error)
}

// MapHandler serves the map page and the GeoJSON feed behind it
type MapHandler struct {
	service     MapService
	mapboxToken string
	cache       *cache.Cache
}

// NewMapHandler creates a new map handler
func NewMapHandler(svc MapService, mapboxToken string) *MapHandler {
	return &MapHandler{
		service:     svc,
		mapboxToken: mapboxToken,
		cache:       cache.New(feedCacheTTL, 2*feedCacheTTL),
	}
}

// Templates parses the embedded HTML templates for gin.Engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// Index renders the map page
//
//	@Summary	Map of independent cafes
//	@Produce	html
//	@Success	200
//	@Router		/ [get]
func (h *MapHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", gin.H{
		"Token":     h.mapboxToken,
		"CenterLat": DefaultCenter.Latitude,
		"CenterLng": DefaultCenter.Longitude,
		"Zoom":      defaultZoom,
		"FeedURL":   feedPath,
	})
}

// GeoJSON handles GET /cafes.geojson requests
//
//	@Summary	Stored cafes as a GeoJSON FeatureCollection
//	@Produce	json
//	@Param		north	query		number	false	"north edge"
//	@Param		south	query		number	false	"south edge"
//	@Param		east	query		number	false	"east edge"
//	@Param		west	query		number	false	"west edge"
//	@Success	200		{object}	object
//	@Failure	400		{object}	object
//	@Router		/cafes.geojson [get]
func (h *MapHandler) GeoJSON(c *gin.Context) {
	within, err := parseBounds(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := cacheKey(within)
	if body, ok := h.cache.Get(key); ok {
		metrics.MapFeedRequests.WithLabelValues("cache").Inc()
		c.Data(http.StatusOK, "application/geo+json", body.([]byte))
		return
	}

	fc, err := h.service.FeatureCollection(c.Request.Context(), within)
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	body, merr := fc.MarshalJSON()
	if merr != nil {
		log.Error().Err(merr).Msg("failed to encode feature collection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// a failed read still renders an empty map, but is not cached
	if err != nil {
		metrics.MapFeedRequests.WithLabelValues("error").Inc()
	} else {
		metrics.MapFeedRequests.WithLabelValues("store").Inc()
		h.cache.SetDefault(key, body)
	}

	c.Data(http.StatusOK, "application/geo+json", body)
}

// cacheKey identifies a feed response by the filter it was built from, so
// unrelated or reordered query parameters share an entry.
func cacheKey(within *models.Bounds) string {
	if within == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g,%g", within.North, within.South, within.East, within.West)
}

// parseBounds reads an optional north/south/east/west filter. Either all four
// are given or none.
func parseBounds(c *gin.Context) (*models.Bounds, error) {
	keys := []string{"north", "south", "east", "west"}
	values := make([]float64, len(keys))
	given := 0

	for i, k := range keys {
		raw := c.Query(k)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format", k)
		}
		values[i] = v
		given++
	}

	switch given {
	case 0:
		return nil, nil
	case len(keys):
	default:
		return nil, errors.New("query parameters 'north', 'south', 'east' and 'west' must be given together")
	}

	b := &models.Bounds{North: values[0], South: values[1], East: values[2], West: values[3]}
	if b.North < b.South || b.East < b.West {
		return nil, errors.New("north must be >= south and east must be >= west")
	}
	return b, nil
}

package places

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cafe-finder/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	// DefaultEndpoint is the Places API (New) nearby search method.
	DefaultEndpoint = "https://places.googleapis.com/v1/places:searchNearby"

	// MaxResultCount is the largest page searchNearby will return.
	MaxResultCount = 20
)

// IncludedTypes restricts results to coffee places.
var IncludedTypes = []string{"cafe", "coffee_shop"}

// FieldMask lists every response field the normalizer reads. A field missing
// here is silently absent from responses.
var FieldMask = []string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.location",
	"places.rating",
	"places.userRatingCount",
	"places.regularOpeningHours",
	"places.priceLevel",
	"places.nationalPhoneNumber",
	"places.websiteUri",
}

// RemoteAPIError is returned when the Places API answers with a non-2xx status.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("places: api error: %d - %s", e.StatusCode, e.Body)
}

// Config holds what the client needs to talk to the Places API.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Client performs nearby searches, one circle per call.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient creates a Places API client
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center models.LatLng `json:"center"`
	Radius float64       `json:"radius"`
}

type searchNearbyResponse struct {
	Places []models.RawPlace `json:"places"`
}

// Search returns the places found inside area. Entries without an id are
// dropped and logged.
func (c *Client) Search(ctx context.Context, area models.SearchArea) ([]models.RawPlace, error) {
	body, err := json.Marshal(searchNearbyRequest{
		IncludedTypes:  IncludedTypes,
		MaxResultCount: MaxResultCount,
		LocationRestriction: locationRestriction{
			Circle: circle{Center: area.Center, Radius: area.Radius},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("places: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("places: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", strings.Join(FieldMask, ","))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &RemoteAPIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	valid := make([]models.RawPlace, 0, len(decoded.Places))
	for _, p := range decoded.Places {
		if err := c.validate.Struct(p); err != nil {
			logger.Warn().Err(err).Str("name", p.Name()).Msg("dropping malformed place")
			continue
		}
		valid = append(valid, p)
	}

	return valid, nil
}

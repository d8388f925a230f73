package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe-finder/internal/models"
	"cafe-finder/internal/places"
	"cafe-finder/internal/ratelimit"
	"cafe-finder/internal/tiling"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource      string `mapstructure:"DB_SOURCE" validate:"required"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	PlacesAPIKey   string        `mapstructure:"PLACES_API_KEY" validate:"required"`
	PlacesEndpoint string        `mapstructure:"PLACES_ENDPOINT" validate:"omitempty,url"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`

	MapboxToken string `mapstructure:"MAPBOX_TOKEN"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	SearchNorth     float64       `mapstructure:"SEARCH_NORTH"`
	SearchSouth     float64       `mapstructure:"SEARCH_SOUTH"`
	SearchEast      float64       `mapstructure:"SEARCH_EAST"`
	SearchWest      float64       `mapstructure:"SEARCH_WEST"`
	SearchRadius    float64       `mapstructure:"SEARCH_RADIUS" validate:"gt=0"`
	SearchLatStep   float64       `mapstructure:"SEARCH_LAT_STEP" validate:"gt=0"`
	SearchLngStep   float64       `mapstructure:"SEARCH_LNG_STEP" validate:"gt=0"`
	RequestInterval time.Duration `mapstructure:"REQUEST_INTERVAL"`

	BreakerThreshold uint32        `mapstructure:"BREAKER_THRESHOLD"`
	BreakerCooldown  time.Duration `mapstructure:"BREAKER_COOLDOWN"`
	MetricsTextfile  string        `mapstructure:"METRICS_TEXTFILE"`
}

// ConfigurationError reports missing or malformed settings. It is always fatal.
type ConfigurationError struct {
	Fields []string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("config: invalid or missing settings: %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

var defaults = map[string]any{
	"DB_SOURCE":         "",
	"DB_PASSWORD":       "",
	"SERVER_ADDRESS":    "0.0.0.0:8080",
	"PLACES_API_KEY":    "",
	"PLACES_ENDPOINT":   places.DefaultEndpoint,
	"HTTP_TIMEOUT":      30 * time.Second,
	"MAPBOX_TOKEN":      "",
	"LOG_LEVEL":         "info",
	"LOG_PRETTY":        false,
	"SEARCH_NORTH":      models.KitchenerWaterlooBounds.North,
	"SEARCH_SOUTH":      models.KitchenerWaterlooBounds.South,
	"SEARCH_EAST":       models.KitchenerWaterlooBounds.East,
	"SEARCH_WEST":       models.KitchenerWaterlooBounds.West,
	"SEARCH_RADIUS":     tiling.DefaultGrid.Radius,
	"SEARCH_LAT_STEP":   tiling.DefaultGrid.LatStep,
	"SEARCH_LNG_STEP":   tiling.DefaultGrid.LngStep,
	"REQUEST_INTERVAL":  ratelimit.DefaultInterval,
	"BREAKER_THRESHOLD": 0,
	"BREAKER_COOLDOWN":  30 * time.Second,
	"METRICS_TEXTFILE":  "",
}

// LoadConfig reads configuration from app.env in path (if present), a .env
// file in the working directory (if present), and the environment, with the
// environment taking precedence.
func LoadConfig(path string) (config Config, err error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// every key needs a default for AutomaticEnv to reach Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, &ConfigurationError{Err: err}
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, &ConfigurationError{Err: err}
	}

	return config, nil
}

// ValidateForSync checks the settings the sync driver cannot run without.
func (c Config) ValidateForSync() error {
	return validateFields(c,
		"DBSource",
		"PlacesAPIKey",
		"PlacesEndpoint",
		"SearchRadius",
		"SearchLatStep",
		"SearchLngStep",
	)
}

// ValidateForAPI checks the settings the map server cannot run without.
func (c Config) ValidateForAPI() error {
	return validateFields(c, "DBSource")
}

func validateFields(c Config, fields ...string) error {
	err := validator.New().StructPartial(c, fields...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigurationError{Err: err}
	}

	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return &ConfigurationError{Fields: names, Err: err}
}

// Bounds is the configured search region.
func (c Config) Bounds() models.Bounds {
	return models.Bounds{
		North: c.SearchNorth,
		South: c.SearchSouth,
		East:  c.SearchEast,
		West:  c.SearchWest,
	}
}

// Grid is the configured tiling grid.
func (c Config) Grid() tiling.Grid {
	return tiling.Grid{
		Radius:  c.SearchRadius,
		LatStep: c.SearchLatStep,
		LngStep: c.SearchLngStep,
	}
}

// PlacesConfig is the configured Places API client settings.
func (c Config) PlacesConfig() places.Config {
	return places.Config{
		APIKey:   c.PlacesAPIKey,
		Endpoint: c.PlacesEndpoint,
		Timeout:  c.HTTPTimeout,
	}
}

// MapboxTokenStatus describes the configured map token.
type MapboxTokenStatus int

const (
	MapboxTokenMissing MapboxTokenStatus = iota
	MapboxTokenSecret
	MapboxTokenPublic
)

// CheckMapboxToken classifies the token; only public "pk." tokens belong in a
// browser page.
func (c Config) CheckMapboxToken() MapboxTokenStatus {
	switch {
	case c.MapboxToken == "":
		return MapboxTokenMissing
	case strings.HasPrefix(c.MapboxToken, "pk."):
		return MapboxTokenPublic
	default:
		return MapboxTokenSecret
	}
}

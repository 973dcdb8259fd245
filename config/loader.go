package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = 16181
	DefaultTripUpdatesURL = "https://api.nationaltransport.ie/gtfsr/v2/TripUpdates?format=json"
	DefaultAPIKeyHeader   = "x-api-key"
	DefaultTimeoutMS      = 5000
	DefaultFallbackLimit  = 10
	DefaultFareAmount     = 2.10
	DefaultFareCurrency   = "€"
	DefaultMetricsPath    = "/metrics"
	DefaultStaticPath     = "static_data"
)

// DefaultPaths are searched in order when Load is called without a path.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Load reads the first readable YAML file among paths (DefaultPaths when
// empty), overlays .env and environment values, applies defaults and
// validates the result.
func Load(paths ...string) (*AppConfig, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML bytes into an AppConfig and finishes it the same way
// Load does.
func Parse(data []byte) (*AppConfig, error) {
	// keys absent from the YAML keep these values; explicit zeros survive
	cfg := AppConfig{Fare: FareConfig{Amount: DefaultFareAmount}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// .env is optional
	_ = godotenv.Load()
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TZ"); v != "" && cfg.Planner.Timezone == "" {
		cfg.Planner.Timezone = v
	}
	applyFeedEnv(&cfg.GTFS, &cfg.GTFSRT)
	for i := range cfg.Feeds {
		applyFeedEnv(&cfg.Feeds[i].GTFS, &cfg.Feeds[i].GTFSRT)
	}
}

// applyFeedEnv overlays the schedule and realtime variables on one feed
func applyFeedEnv(g *GTFSConfig, rt *GTFSRTConfig) {
	if v := os.Getenv("GTFS_STATIC_PATH"); v != "" {
		g.Path = v
	}
	if v := os.Getenv("GTFS_DSN"); v != "" {
		g.DSN = v
	}
	if v := os.Getenv("GTFSRT_TRIP_UPDATES_URL"); v != "" {
		rt.TripUpdatesURL = v
	}
	if v := os.Getenv("GTFSRT_API_KEY"); v != "" {
		rt.APIKey = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	defaultFeed(&cfg.GTFS, &cfg.GTFSRT)
	for i := range cfg.Feeds {
		defaultFeed(&cfg.Feeds[i].GTFS, &cfg.Feeds[i].GTFSRT)
	}
	if cfg.Planner.FallbackLimit == 0 {
		cfg.Planner.FallbackLimit = DefaultFallbackLimit
	}
	if cfg.Fare.Currency == "" {
		cfg.Fare.Currency = DefaultFareCurrency
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

func defaultFeed(g *GTFSConfig, rt *GTFSRTConfig) {
	if g.Path == "" && g.StaticURL == "" && g.DSN == "" {
		g.Path = DefaultStaticPath
	}
	if rt.TripUpdatesURL == "" {
		rt.TripUpdatesURL = DefaultTripUpdatesURL
	}
	if rt.APIKeyHeader == "" {
		rt.APIKeyHeader = DefaultAPIKeyHeader
	}
	if rt.TimeoutMS == 0 {
		rt.TimeoutMS = DefaultTimeoutMS
	}
}

// Location resolves Planner.Timezone; an empty zone means time.Local.
func (c *AppConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Planner.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Timeout returns the realtime fetch budget as a duration.
func (rt GTFSRTConfig) Timeout() time.Duration {
	return time.Duration(rt.TimeoutMS) * time.Millisecond
}

// SelectFeed chooses a feed by name; fallback to first; if none, use top-level GTFS/GTFSRT.
func (c *AppConfig) SelectFeed(name string) (GTFSConfig, GTFSRTConfig) {
	if name != "" {
		for _, f := range c.Feeds {
			if f.Name == name {
				return f.GTFS, f.GTFSRT
			}
		}
	}
	if len(c.Feeds) > 0 {
		return c.Feeds[0].GTFS, c.Feeds[0].GTFSRT
	}
	return c.GTFS, c.GTFSRT
}

package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// GTFSConfig contains GTFS static schedule configuration
type GTFSConfig struct {
	Source    string `yaml:"source" validate:"omitempty,oneof=dir zip sqlite postgres"`
	Path      string `yaml:"path"`
	StaticURL string `yaml:"staticURL" validate:"omitempty,url"`
	DSN       string `yaml:"dsn"`
	CachePath string `yaml:"cachePath"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL"`
	APIKeyHeader   string `yaml:"apiKeyHeader"`
	APIKey         string `yaml:"apiKey"`
	TimeoutMS      int    `yaml:"timeoutMS" validate:"gte=0"`
}

// PlannerConfig contains trip matching configuration
type PlannerConfig struct {
	FallbackLimit   int    `yaml:"fallbackLimit" validate:"gte=0"`
	Timezone        string `yaml:"timezone"`
	CacheSize       int    `yaml:"cacheSize" validate:"gte=0"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds" validate:"gte=0"`
}

// FareConfig contains the flat fare used for cost estimates
type FareConfig struct {
	Amount   float64 `yaml:"amount" validate:"gte=0"`
	Currency string  `yaml:"currency"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Feed represents a single named schedule + realtime pair
type Feed struct {
	Name   string       `yaml:"name" validate:"required"`
	GTFS   GTFSConfig   `yaml:"gtfs"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
	Planner PlannerConfig `yaml:"planner"`
	Fare    FareConfig    `yaml:"fare"`
	Metrics MetricsConfig `yaml:"metrics"`
	Feeds   []Feed        `yaml:"feeds" validate:"dive"`
}

package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every configuration key when it is looked up in the environment.
const envPrefix = "PHARMA"

// Config holds the configuration settings for the pharmacy finder client.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - APIBase: Base URL of the pharmacy backend, without a trailing slash.
// - DebounceDelay: Quiet period before a medicine lookup is sent.
// - MinQueryLength: Shortest query that reaches the backend, 0 sends every query.
// - RequestTimeout: Per-request HTTP timeout, 0 leaves the platform default.
// - SearchRateLimit: Suggestion requests per second, 0 means unlimited.
// - GeoJSONPath: Where the map view is exported after each render, empty disables it.
// - Location: Configuration of the geolocation provider.
type Config struct {
	Env             string         `yaml:"env"`
	Port            int            `yaml:"monitoring.port"`
	APIBase         string         `yaml:"api.base"`
	DebounceDelay   time.Duration  `yaml:"suggest.debounce"`
	MinQueryLength  int            `yaml:"suggest.min_query_length"`
	RequestTimeout  time.Duration  `yaml:"api.timeout"`
	SearchRateLimit float64        `yaml:"api.search_rate_limit"`
	GeoJSONPath     string         `yaml:"map.geojson_path"`
	Location        LocationConfig `yaml:"location"`
}

// LocationConfig selects and configures the geolocation provider.
type LocationConfig struct {
	ProviderType string               `yaml:"provider"` // google, nominatim, static or none.
	APIKey       string               `yaml:"api_key"`  // API key (required for Google).
	Address      string               `yaml:"address"`  // Home address resolved by Nominatim.
	Static       *models.Coordinates `yaml:"static"`   // Fixed coordinates for the static provider.
}

// MustLoad loads the configuration from an optional .env file and the environment.
func MustLoad() *Config {
	return MustLoadFrom()
}

// MustLoadFrom loads the given env files (".env" when none are given) and then reads
// the configuration from the environment. It panics on values that cannot be parsed.
func MustLoadFrom(files ...string) *Config {
	_ = godotenv.Load(files...)

	vpr := viper.New()
	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("health_port", "8080")
	vpr.SetDefault("api_base", "http://localhost:8000/api")
	vpr.SetDefault("debounce_delay", "500ms")
	vpr.SetDefault("min_query_length", "0")
	vpr.SetDefault("request_timeout", "0s")
	vpr.SetDefault("search_rate_limit", "0")
	vpr.SetDefault("location_provider", "none")

	debounce, err := time.ParseDuration(vpr.GetString("debounce_delay"))
	if err != nil || debounce < 0 {
		panic("failed to parse debounce delay from configuration")
	}

	timeout, err := time.ParseDuration(vpr.GetString("request_timeout"))
	if err != nil || timeout < 0 {
		panic("failed to parse request timeout from configuration")
	}

	healthPort, err := strconv.Atoi(vpr.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	minQuery, err := strconv.Atoi(vpr.GetString("min_query_length"))
	if err != nil || minQuery < 0 {
		panic("failed to parse minimal query length from configuration, must be a non-negative integer")
	}

	rateLimit, err := strconv.ParseFloat(vpr.GetString("search_rate_limit"), 64)
	if err != nil || rateLimit < 0 {
		panic("failed to parse search rate limit from configuration")
	}

	return &Config{
		Env:             vpr.GetString("env"),
		Port:            healthPort,
		APIBase:         strings.TrimRight(vpr.GetString("api_base"), "/"),
		DebounceDelay:   debounce,
		MinQueryLength:  minQuery,
		RequestTimeout:  timeout,
		SearchRateLimit: rateLimit,
		GeoJSONPath:     vpr.GetString("geojson_path"),
		Location: LocationConfig{
			ProviderType: vpr.GetString("location_provider"),
			APIKey:       vpr.GetString("location_api_key"),
			Address:      vpr.GetString("location_address"),
			Static:       staticCoordinates(vpr.GetString("location_latitude"), vpr.GetString("location_longitude")),
		},
	}
}

// staticCoordinates parses the fixed location. Both values must be present, otherwise
// the static provider has nothing to report.
func staticCoordinates(lat, lon string) *models.Coordinates {
	if lat == "" || lon == "" {
		return nil
	}

	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		panic("failed to parse static latitude from configuration")
	}

	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		panic("failed to parse static longitude from configuration")
	}

	return &models.Coordinates{Latitude: latitude, Longitude: longitude}
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/nearpharma/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("PHARMA_ENV", "local")
	t.Setenv("PHARMA_API_BASE", "https://pharma.example.com/api/")
	t.Setenv("PHARMA_DEBOUNCE_DELAY", "250ms")
	t.Setenv("PHARMA_REQUEST_TIMEOUT", "15s")
	t.Setenv("PHARMA_SEARCH_RATE_LIMIT", "2.5")
	t.Setenv("PHARMA_MIN_QUERY_LENGTH", "2")
	t.Setenv("PHARMA_LOCATION_PROVIDER", "static")
	t.Setenv("PHARMA_LOCATION_LATITUDE", "12.9")
	t.Setenv("PHARMA_LOCATION_LONGITUDE", "77.6")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://pharma.example.com/api", cfg.APIBase)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.SearchRateLimit, 0)
	assert.Equal(t, 2, cfg.MinQueryLength)
	assert.Equal(t, "static", cfg.Location.ProviderType)
	require.NotNil(t, cfg.Location.Static)
	assert.InDelta(t, 12.9, cfg.Location.Static.Latitude, 0)
	assert.InDelta(t, 77.6, cfg.Location.Static.Longitude, 0)
}

func Test_MustLoadDefaults(t *testing.T) {
	cfg := config.MustLoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBase)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.MinQueryLength)
	assert.Equal(t, "none", cfg.Location.ProviderType)
	assert.Nil(t, cfg.Location.Static)
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	envFile := filepath.Join(dir, "pharma.env")
	filet.File(t, envFile, "PHARMA_LOCATION_PROVIDER=nominatim\nPHARMA_LOCATION_ADDRESS=MG Road, Bengaluru\n")
	t.Cleanup(func() {
		os.Unsetenv("PHARMA_LOCATION_PROVIDER")
		os.Unsetenv("PHARMA_LOCATION_ADDRESS")
	})

	cfg := config.MustLoadFrom(envFile)

	assert.Equal(t, "nominatim", cfg.Location.ProviderType)
	assert.Equal(t, "MG Road, Bengaluru", cfg.Location.Address)
}

func TestMustLoad_DebounceError(t *testing.T) {
	t.Setenv("PHARMA_DEBOUNCE_DELAY", "error_value")

	assert.PanicsWithValue(t, "failed to parse debounce delay from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_TimeoutError(t *testing.T) {
	t.Setenv("PHARMA_REQUEST_TIMEOUT", "-1s")

	assert.PanicsWithValue(t, "failed to parse request timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("PHARMA_HEALTH_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MinQueryLengthError(t *testing.T) {
	t.Setenv("PHARMA_MIN_QUERY_LENGTH", "-3")

	assert.PanicsWithValue(
		t,
		"failed to parse minimal query length from configuration, must be a non-negative integer",
		func() {
			config.MustLoad()
		},
	)
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("PHARMA_SEARCH_RATE_LIMIT", "fast")

	assert.PanicsWithValue(t, "failed to parse search rate limit from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_StaticLocationError(t *testing.T) {
	t.Setenv("PHARMA_LOCATION_LATITUDE", "north")
	t.Setenv("PHARMA_LOCATION_LONGITUDE", "77.6")

	assert.PanicsWithValue(t, "failed to parse static latitude from configuration", func() {
		config.MustLoad()
	})
}

package geolocation

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/nearpharma/internal/models"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geolocation provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents the Google Geolocation API.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim resolves a configured address with OpenStreetMap Nominatim.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeStatic reports fixed coordinates.
	ProviderTypeStatic ProviderType = "static"
	// ProviderTypeNone disables geolocation.
	ProviderTypeNone ProviderType = "none"
)

// ProviderConfig holds configuration for creating a geolocation provider.
type ProviderConfig struct {
	Type    ProviderType        // Type of provider to create
	APIKey  string              // API key (used by Google provider)
	Address string              // Address (used by Nominatim provider)
	Static  *models.Coordinates // Coordinates (used by static provider)
	Logger  *slog.Logger        // Logger for the provider
}

// NewProvider creates a geolocation provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Geolocation API (requires API key)
// - "nominatim": OpenStreetMap Nominatim lookup of a configured address
// - "static": fixed coordinates
// - "none" or empty: no capability, every Locate call fails
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeNominatim:
		if config.Address == "" {
			return nil, errors.New("address is required for Nominatim provider")
		}
		return NewNominatimProvider(config.Address, config.Logger), nil
	case ProviderTypeStatic:
		if config.Static == nil {
			return nil, errors.New("coordinates are required for static provider")
		}
		return NewStaticProvider(*config.Static), nil
	case ProviderTypeNone, "":
		return NoneProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

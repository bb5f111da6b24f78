package geolocation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/nearpharma/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider locates the host through the Google Geolocation API.
type GoogleProvider struct {
	client GeolocationAPIClient // client is the Google Maps API client
	log    *slog.Logger         // log is the logger for logging operations
}

// GeolocationAPIClient is the subset of the Google Maps client used by the provider.
type GeolocationAPIClient interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GeolocationAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Locate asks the Geolocation API for the position of the caller. The request carries no
// cell towers or access points, so the API falls back to the public IP address.
func (gp *GoogleProvider) Locate(ctx context.Context) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Locating using Google Geolocation API")

	req := maps.GeolocationRequest{ConsiderIP: true}
	resp, err := gp.client.Geolocate(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to geolocate: %w", ErrLocationUnavailable, err)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: empty response from Google Geolocation API", ErrLocationUnavailable)
	}

	gp.log.DebugContext(ctx, "Location acquired", "lat", resp.Location.Lat, "lng", resp.Location.Lng,
		"accuracy", resp.Accuracy)

	return &models.Coordinates{Latitude: resp.Location.Lat, Longitude: resp.Location.Lng}, nil
}

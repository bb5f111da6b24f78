package geolocation_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/nearpharma/internal/geolocation"
	"github.com/UnknownOlympus/nearpharma/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Locate(t *testing.T) {
	mockClient := mocks.NewGeolocationAPIClient(t)
	provider := geolocation.NewGoogleProvider(mockClient, slog.Default())
	ctx := context.Background()
	req := &maps.GeolocationRequest{ConsiderIP: true}

	t.Run("api returns error", func(t *testing.T) {
		mockClient.On("Geolocate", ctx, req).Return(nil, assert.AnError).Once()

		coords, err := provider.Locate(ctx)

		require.Nil(t, coords)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorIs(t, err, geolocation.ErrLocationUnavailable)
	})

	t.Run("api returns empty response", func(t *testing.T) {
		mockClient.On("Geolocate", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Locate(ctx)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geolocation.ErrLocationUnavailable)
	})

	t.Run("successful geolocation", func(t *testing.T) {
		resp := &maps.GeolocationResult{Location: maps.LatLng{Lat: 50.45, Lng: 30.52}, Accuracy: 1200}
		mockClient.On("Geolocate", ctx, req).Return(resp, nil).Once()

		coords, err := provider.Locate(ctx)

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 50.45, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 30.52, coords.Longitude, 0.0001)
	})
}

package geolocation

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/nearpharma/internal/models"
)

// Provider is an interface that defines a method for acquiring the current position.
// Locate is a one-shot request: it is never retried and never triggered automatically.
type Provider interface {
	Locate(ctx context.Context) (*models.Coordinates, error)
}

// ErrLocationUnavailable is wrapped by every error a provider returns.
var ErrLocationUnavailable = errors.New("location is unavailable")

// NoneProvider is used when the host has no geolocation capability.
type NoneProvider struct{}

// Locate always fails with ErrLocationUnavailable.
func (NoneProvider) Locate(_ context.Context) (*models.Coordinates, error) {
	return nil, ErrLocationUnavailable
}

// StaticProvider returns fixed coordinates.
type StaticProvider struct {
	coords models.Coordinates
}

// NewStaticProvider creates a provider that always reports coords.
func NewStaticProvider(coords models.Coordinates) *StaticProvider {
	return &StaticProvider{coords: coords}
}

// Locate returns a copy of the configured coordinates.
func (sp *StaticProvider) Locate(ctx context.Context) (*models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLocationUnavailable, err)
	}

	coords := sp.coords
	return &coords, nil
}

package view

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/nearpharma/internal/geometry"
)

// GeoJSONWriter exports the map layer of every rendered view to a file.
type GeoJSONWriter struct {
	path string
	log  *slog.Logger
}

// NewGeoJSONWriter creates a renderer that writes to path.
func NewGeoJSONWriter(path string, log *slog.Logger) *GeoJSONWriter {
	return &GeoJSONWriter{path: path, log: log}
}

// Render writes the map layer. Failures are logged, the view is still usable.
func (gw *GeoJSONWriter) Render(v View) {
	if err := gw.Write(v); err != nil {
		gw.log.Error("Failed to export map layer", "path", gw.path, "error", err)
	}
}

// Write encodes the center, store markers and segments as a GeoJSON feature collection.
// The file is replaced atomically.
func (gw *GeoJSONWriter) Write(v View) error {
	data, err := json.MarshalIndent(geometry.FeatureCollection(v.Center, v.Matches, v.Segments), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feature collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(gw.path), ".map-*.geojson")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write feature collection: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err = os.Rename(tmp.Name(), gw.path); err != nil {
		return fmt.Errorf("failed to replace map file: %w", err)
	}

	gw.log.Debug("Map layer exported", "path", gw.path, "features", len(v.Markers)+len(v.Polylines))

	return nil
}

// Renderers fans a view out to several renderers in order.
type Renderers []Renderer

func (rs Renderers) Render(v View) {
	for _, r := range rs {
		r.Render(v)
	}
}

// Package geometry derives the map overlay from the origin and the result set.
package geometry

import (
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// srid is WGS 84.
const srid = 4326

// PathSegment is a straight line from the origin to one store.
type PathSegment struct {
	From models.Coordinates
	To   models.Coordinates
}

// DeriveSegments returns one segment per match, in result order, from the origin to the
// match's pharmacy. Nothing is drawn until the origin is set.
func DeriveSegments(origin models.Origin, matches []models.StoreMatch) []PathSegment {
	from, ok := origin.Get()
	if !ok || len(matches) == 0 {
		return []PathSegment{}
	}

	segments := make([]PathSegment, 0, len(matches))
	for _, match := range matches {
		segments = append(segments, PathSegment{From: from, To: match.Pharmacy.Coordinates()})
	}

	return segments
}

// LineString converts the segment into a two-point XY line string (longitude first).
func (s PathSegment) LineString() *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, []float64{
		s.From.Longitude, s.From.Latitude,
		s.To.Longitude, s.To.Latitude,
	}).SetSRID(srid)
}

// LineStrings converts every segment, keeping order.
func LineStrings(segments []PathSegment) []*geom.LineString {
	lines := make([]*geom.LineString, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, s.LineString())
	}

	return lines
}

// Point converts coordinates into an XY point (longitude first).
func Point(c models.Coordinates) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}).SetSRID(srid)
}

// FeatureCollection builds the GeoJSON map layer: the center marker, one marker per
// store and the segments.
func FeatureCollection(center models.Origin, matches []models.StoreMatch, segments []PathSegment) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}

	if coords, ok := center.Get(); ok {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: Point(coords),
			Properties: map[string]interface{}{
				"kind":  "origin",
				"label": "Your location",
			},
		})
	}

	for _, match := range matches {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: Point(match.Pharmacy.Coordinates()),
			Properties: map[string]interface{}{
				"kind":             "store",
				"label":            match.Pharmacy.BranchName,
				"storeId":          match.ID,
				"medicineQuantity": match.MedicineQuantity,
				"rating":           match.Pharmacy.Rating,
			},
		})
	}

	for idx, segment := range segments {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: segment.LineString(),
			Properties: map[string]interface{}{
				"kind":  "path",
				"index": idx,
			},
		})
	}

	return fc
}

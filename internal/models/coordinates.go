package models

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point.
	Longitude float64 // Longitude of the geographical point.
}

// Origin is an optional coordinate. A zero Origin is unset, which keeps (0,0)
// available as a real reading.
type Origin struct {
	Coordinates

	Valid bool // Valid is true when the coordinates were entered or acquired.
}

// NewOrigin returns a set origin at the given coordinates.
func NewOrigin(coords Coordinates) Origin {
	return Origin{Coordinates: coords, Valid: true}
}

// Get returns the coordinates and whether the origin is set.
func (o Origin) Get() (Coordinates, bool) {
	return o.Coordinates, o.Valid
}

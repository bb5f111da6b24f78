// Package view describes what the presentation layer draws: map markers, polylines and tables.
package view

import (
	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/geometry"
	"github.com/UnknownOlympus/nearpharma/internal/models"
)

// PolylineColor is the stroke color of every path.
const PolylineColor = "blue"

// OriginLabel is the popup text of the center marker.
const OriginLabel = "Your location"

// Marker is a labelled point on the map.
type Marker struct {
	Position models.Coordinates
	Label    string
}

// Polyline is an ordered list of points with a stroke color.
type Polyline struct {
	Points []models.Coordinates
	Color  string
}

// InputRow echoes the parameters entered by the user.
type InputRow struct {
	Latitude     *float64
	Longitude    *float64
	Quantity     int
	MedicineName string
}

// ResultRow is one line of the results table.
type ResultRow struct {
	StoreID          string
	BranchName       string
	MedicineName     string
	MedicineQuantity int
	Rating           float64
	AreaName         string
	Address          string
	City             string
}

// View is the complete render input.
type View struct {
	Center      models.Origin
	Markers     []Marker
	Polylines   []Polyline
	Input       InputRow
	Rows        []ResultRow
	Suggestions []models.MedicineSuggestion
	Searching   bool // a medicine lookup is in flight
	Busy        bool // a recommendation request is pending
	Locating    bool
	Matches     []models.StoreMatch
	Segments    []geometry.PathSegment
}

// Renderer draws a view.
type Renderer interface {
	Render(v View)
}

// State is everything a view is built from.
type State struct {
	Center      models.Origin
	Form        form.Snapshot
	Matches     []models.StoreMatch
	Suggestions []models.MedicineSuggestion
	Searching   bool
	Busy        bool
	Locating    bool
}

// Build derives a view from state. Segments are recomputed on every call.
func Build(state State) View {
	segments := geometry.DeriveSegments(state.Form.Origin, state.Matches)

	v := View{
		Center:      state.Center,
		Markers:     make([]Marker, 0, len(state.Matches)+1),
		Polylines:   make([]Polyline, 0, len(segments)),
		Rows:        make([]ResultRow, 0, len(state.Matches)),
		Suggestions: state.Suggestions,
		Searching:   state.Searching,
		Busy:        state.Busy,
		Locating:    state.Locating,
		Matches:     state.Matches,
		Segments:    segments,
		Input: InputRow{
			Latitude:     state.Form.Latitude,
			Longitude:    state.Form.Longitude,
			Quantity:     state.Form.Quantity,
			MedicineName: state.Form.MedicineName,
		},
	}

	if center, ok := state.Center.Get(); ok {
		v.Markers = append(v.Markers, Marker{Position: center, Label: OriginLabel})
	}

	for _, match := range state.Matches {
		v.Markers = append(v.Markers, Marker{
			Position: match.Pharmacy.Coordinates(),
			Label:    match.Pharmacy.BranchName,
		})
		v.Rows = append(v.Rows, ResultRow{
			StoreID:          match.ID,
			BranchName:       match.Pharmacy.BranchName,
			MedicineName:     state.Form.MedicineName,
			MedicineQuantity: match.MedicineQuantity,
			Rating:           match.Pharmacy.Rating,
			AreaName:         match.Pharmacy.AreaName,
			Address:          match.Pharmacy.Address,
			City:             match.Pharmacy.City,
		})
	}

	for _, segment := range segments {
		v.Polylines = append(v.Polylines, Polyline{
			Points: []models.Coordinates{segment.From, segment.To},
			Color:  PolylineColor,
		})
	}

	return v
}

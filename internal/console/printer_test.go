package console_test

import (
	"bytes"
	"testing"

	"github.com/UnknownOlympus/nearpharma/internal/console"
	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
	"github.com/UnknownOlympus/nearpharma/internal/view"
	"github.com/stretchr/testify/assert"
)

func resultView() view.View {
	origin := models.NewOrigin(models.Coordinates{Latitude: 50.45, Longitude: 30.52})

	return view.Build(view.State{
		Center: origin,
		Form:   form.Snapshot{Origin: origin, Quantity: 2, MedicineID: "m1", MedicineName: "Aspirin"},
		Matches: []models.StoreMatch{{ID: "s1", MedicineQuantity: 7, Pharmacy: models.Pharmacy{
			BranchName: "Podil", Rating: 4.2, AreaName: "Podil", Address: "Sahaidachnoho 1", City: "Kyiv",
			Latitude: 50.46, Longitude: 30.51,
		}}},
		Suggestions: []models.MedicineSuggestion{{ID: "m1", Name: "Aspirin"}, {ID: "m2", Name: "Aspirin C"}},
	})
}

func TestPrinter_Notify(t *testing.T) {
	var out bytes.Buffer
	printer := console.NewPrinter(&out, false)

	printer.Notify("Results are fetched successfully...", notify.Success)
	printer.Notify("Failed to fetch medicines", notify.Error)

	assert.Equal(t, "[ok] Results are fetched successfully...\n[error] Failed to fetch medicines\n", out.String())
}

func TestPrinter_Render(t *testing.T) {
	t.Run("prints changes only", func(t *testing.T) {
		var out bytes.Buffer
		printer := console.NewPrinter(&out, false)
		v := resultView()

		printer.Render(v)
		first := out.String()
		printer.Render(v)

		assert.Contains(t, first, "1) Aspirin\n")
		assert.Contains(t, first, "2) Aspirin C\n")
		assert.Contains(t, first, "Sahaidachnoho 1")
		assert.Equal(t, first, out.String())
	})

	t.Run("empty suggestion list after results", func(t *testing.T) {
		var out bytes.Buffer
		printer := console.NewPrinter(&out, false)

		printer.Render(resultView())
		out.Reset()

		v := resultView()
		v.Suggestions = nil
		printer.Render(v)

		assert.Equal(t, "no medicines found\n", out.String())
	})
}

func TestPrinter_Show(t *testing.T) {
	var out bytes.Buffer
	printer := console.NewPrinter(&out, false)
	v := resultView()
	v.Busy = true

	printer.Show(v)

	assert.Contains(t, out.String(), "Your location: 50.45, 30.52")
	assert.Contains(t, out.String(), "path 1 (blue): 50.45, 30.52 -> 50.46, 30.51")
	assert.Contains(t, out.String(), "Podil")
	assert.Contains(t, out.String(), "... fetching recommendations")
}

package form_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllUnset(t *testing.T) {
	model := form.New()
	snap := model.Snapshot()

	assert.False(t, snap.Origin.Valid)
	assert.Nil(t, snap.Latitude)
	assert.Nil(t, snap.Longitude)
	assert.Zero(t, snap.Quantity)
	assert.Empty(t, snap.MedicineID)
	assert.Empty(t, snap.MedicineName)
	assert.False(t, model.IsSubmitReady())
}

func TestModel_QuantityFloor(t *testing.T) {
	model := form.New()

	for i := 0; i < 5; i++ {
		model.DecrementQuantity()
	}
	assert.Zero(t, model.Snapshot().Quantity)

	model.IncrementQuantity()
	model.IncrementQuantity()
	model.DecrementQuantity()
	assert.Equal(t, 1, model.Snapshot().Quantity)

	err := model.SetQuantity(-4)
	require.ErrorIs(t, err, form.ErrNegativeQuantity)
	assert.Equal(t, 1, model.Snapshot().Quantity)

	require.NoError(t, model.SetQuantity(12))
	assert.Equal(t, 12, model.Snapshot().Quantity)
}

func TestModel_Coordinates(t *testing.T) {
	t.Run("origin needs both coordinates", func(t *testing.T) {
		model := form.New()

		require.NoError(t, model.SetLatitude(12.9))
		assert.False(t, model.Snapshot().Origin.Valid)

		require.NoError(t, model.SetLongitude(77.6))
		origin := model.Snapshot().Origin
		assert.True(t, origin.Valid)
		assert.Equal(t, models.Coordinates{Latitude: 12.9, Longitude: 77.6}, origin.Coordinates)
	})

	t.Run("zero is a real reading", func(t *testing.T) {
		model := form.New()

		require.NoError(t, model.SetOrigin(models.Coordinates{}))
		assert.True(t, model.Snapshot().Origin.Valid)
	})

	t.Run("direct entry accepts negative values", func(t *testing.T) {
		model := form.New()

		require.NoError(t, model.SetLatitude(-33.86))
		require.NoError(t, model.SetLongitude(-70.65))
		assert.Equal(t, models.Coordinates{Latitude: -33.86, Longitude: -70.65}, model.Snapshot().Origin.Coordinates)
	})

	t.Run("out of range and non-finite values are rejected", func(t *testing.T) {
		model := form.New()

		require.ErrorIs(t, model.SetLatitude(90.5), form.ErrInvalidCoordinate)
		require.ErrorIs(t, model.SetLongitude(-180.1), form.ErrInvalidCoordinate)
		require.ErrorIs(t, model.SetLatitude(math.NaN()), form.ErrInvalidCoordinate)
		require.ErrorIs(t, model.SetOrigin(models.Coordinates{Latitude: 1, Longitude: math.Inf(1)}), form.ErrInvalidCoordinate)
		assert.False(t, model.Snapshot().Origin.Valid)
		assert.Nil(t, model.Snapshot().Latitude)
	})

	t.Run("step helpers floor at zero", func(t *testing.T) {
		model := form.New()

		model.DecrementLatitude()
		assert.Nil(t, model.Snapshot().Latitude, "decrementing an unset value is a no-op")

		model.IncrementLatitude()
		model.IncrementLongitude()
		require.NotNil(t, model.Snapshot().Latitude)
		assert.InDelta(t, 1, *model.Snapshot().Latitude, 0)

		model.DecrementLatitude()
		model.DecrementLatitude()
		model.DecrementLongitude()
		model.DecrementLongitude()
		snap := model.Snapshot()
		assert.InDelta(t, 0, *snap.Latitude, 0)
		assert.InDelta(t, 0, *snap.Longitude, 0)
		assert.True(t, snap.Origin.Valid)
	})

	t.Run("step helpers clamp at the range maximum", func(t *testing.T) {
		model := form.New()

		require.NoError(t, model.SetLatitude(89.5))
		model.IncrementLatitude()
		model.IncrementLatitude()
		assert.InDelta(t, 90, *model.Snapshot().Latitude, 0)
	})
}

func TestModel_Selection(t *testing.T) {
	model := form.New()

	model.SelectSuggestion(models.MedicineSuggestion{ID: "m1", Name: "Paracetamol"})
	snap := model.Snapshot()
	assert.Equal(t, "m1", snap.MedicineID)
	assert.Equal(t, "Paracetamol", snap.MedicineName)

	model.ClearSelection()
	snap = model.Snapshot()
	assert.Empty(t, snap.MedicineID)
	assert.Empty(t, snap.MedicineName)
}

func TestModel_Validate(t *testing.T) {
	ready := func() *form.Model {
		model := form.New()
		require.NoError(t, model.SetOrigin(models.Coordinates{Latitude: 12.9, Longitude: 77.6}))
		require.NoError(t, model.SetQuantity(2))
		model.SelectSuggestion(models.MedicineSuggestion{ID: "m1", Name: "Paracetamol"})

		return model
	}

	tests := []struct {
		name    string
		mutate  func(m *form.Model)
		missing []string
	}{
		{name: "ready", mutate: func(*form.Model) {}},
		{name: "zero quantity", mutate: func(m *form.Model) { _ = m.SetQuantity(0) }, missing: []string{form.FieldQuantity}},
		{name: "no medicine", mutate: func(m *form.Model) { m.ClearSelection() }, missing: []string{form.FieldMedicine}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := ready()
			tt.mutate(model)

			err := model.Validate()
			if tt.missing == nil {
				require.NoError(t, err)
				assert.True(t, model.IsSubmitReady())
				return
			}

			require.ErrorIs(t, err, form.ErrIncomplete)
			var validationErr *form.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.missing, validationErr.Missing)
			assert.False(t, model.IsSubmitReady())
		})
	}

	t.Run("unset origin", func(t *testing.T) {
		model := form.New()
		require.NoError(t, model.SetQuantity(2))
		require.NoError(t, model.SetLatitude(12.9))
		model.SelectSuggestion(models.MedicineSuggestion{ID: "m1", Name: "Paracetamol"})

		var validationErr *form.ValidationError
		require.ErrorAs(t, model.Validate(), &validationErr)
		assert.Equal(t, []string{form.FieldOrigin}, validationErr.Missing)
	})

	t.Run("empty form lists every field", func(t *testing.T) {
		var validationErr *form.ValidationError
		require.ErrorAs(t, form.New().Validate(), &validationErr)
		assert.Equal(t, []string{form.FieldQuantity, form.FieldOrigin, form.FieldMedicine}, validationErr.Missing)
		assert.Equal(t, "all fields are required to be filled: missing quantity, origin, medicine", validationErr.Error())
	})
}

func TestModel_Subscribe(t *testing.T) {
	model := form.New()

	var snaps []form.Snapshot
	model.Subscribe(func(s form.Snapshot) {
		snaps = append(snaps, s)
	})

	model.IncrementQuantity()
	model.DecrementQuantity()
	model.DecrementQuantity() // no-op, no notification
	model.SelectSuggestion(models.MedicineSuggestion{ID: "m1", Name: "Paracetamol"})
	model.SelectSuggestion(models.MedicineSuggestion{ID: "m1", Name: "Paracetamol"}) // unchanged
	require.NoError(t, model.SetOrigin(models.Coordinates{Latitude: 1, Longitude: 2}))

	require.Len(t, snaps, 4)
	assert.Equal(t, 1, snaps[0].Quantity)
	assert.Equal(t, 0, snaps[1].Quantity)
	assert.Equal(t, "m1", snaps[2].MedicineID)
	assert.True(t, snaps[3].Origin.Valid)
}

// Package form holds the user-entered search parameters and decides when they can be submitted.
package form

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/UnknownOlympus/nearpharma/internal/models"
)

// Coordinate bounds accepted by the form.
const (
	MaxLatitude  = 90.0
	MaxLongitude = 180.0
)

var (
	// ErrIncomplete is matched by every ValidationError.
	ErrIncomplete = errors.New("all fields are required to be filled")
	// ErrInvalidCoordinate is returned for non-finite or out-of-range coordinates.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrNegativeQuantity is returned when a negative quantity is entered.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Field names reported by ValidationError.
const (
	FieldQuantity = "quantity"
	FieldOrigin   = "origin"
	FieldMedicine = "medicine"
)

// ValidationError lists the fields that block a submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncomplete, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrIncomplete
}

// Snapshot is a consistent copy of the form fields.
type Snapshot struct {
	Origin       models.Origin
	Latitude     *float64 // Latitude as entered, nil until set.
	Longitude    *float64 // Longitude as entered, nil until set.
	Quantity     int
	MedicineID   string
	MedicineName string
}

// Validate returns a *ValidationError naming the missing fields, or nil when the snapshot
// can be submitted.
func (s Snapshot) Validate() error {
	var missing []string
	if s.Quantity <= 0 {
		missing = append(missing, FieldQuantity)
	}
	if !s.Origin.Valid {
		missing = append(missing, FieldOrigin)
	}
	if s.MedicineID == "" {
		missing = append(missing, FieldMedicine)
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	return nil
}

// optional is a float that remembers whether it was ever entered.
type optional struct {
	value float64
	set   bool
}

func (o optional) ptr() *float64 {
	if !o.set {
		return nil
	}
	v := o.value

	return &v
}

// Model is the form state. All mutation goes through its setters; observers are
// called after every effective change, outside the lock.
type Model struct {
	mu           sync.Mutex
	latitude     optional
	longitude    optional
	quantity     int
	medicineID   string
	medicineName string
	observers    []func(Snapshot)
}

// New returns a form with every field unset.
func New() *Model {
	return &Model{}
}

// Subscribe registers fn to receive a snapshot after each change.
func (m *Model) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, fn)
}

// Snapshot returns the current state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

// IsSubmitReady reports whether quantity is positive, the origin is set and a medicine is selected.
func (m *Model) IsSubmitReady() bool {
	return m.Validate() == nil
}

// Validate returns a *ValidationError naming the missing fields, or nil when the form is ready.
func (m *Model) Validate() error {
	return m.Snapshot().Validate()
}

// SetLatitude stores a directly entered latitude. Negative values are allowed.
func (m *Model) SetLatitude(value float64) error {
	if err := checkRange(value, MaxLatitude); err != nil {
		return fmt.Errorf("latitude %v: %w", value, err)
	}

	m.update(func() bool {
		return setOptional(&m.latitude, value)
	})

	return nil
}

// SetLongitude stores a directly entered longitude. Negative values are allowed.
func (m *Model) SetLongitude(value float64) error {
	if err := checkRange(value, MaxLongitude); err != nil {
		return fmt.Errorf("longitude %v: %w", value, err)
	}

	m.update(func() bool {
		return setOptional(&m.longitude, value)
	})

	return nil
}

// SetOrigin stores both coordinates at once, as a location reading does.
func (m *Model) SetOrigin(coords models.Coordinates) error {
	if err := checkRange(coords.Latitude, MaxLatitude); err != nil {
		return fmt.Errorf("latitude %v: %w", coords.Latitude, err)
	}
	if err := checkRange(coords.Longitude, MaxLongitude); err != nil {
		return fmt.Errorf("longitude %v: %w", coords.Longitude, err)
	}

	m.update(func() bool {
		latChanged := setOptional(&m.latitude, coords.Latitude)
		lonChanged := setOptional(&m.longitude, coords.Longitude)

		return latChanged || lonChanged
	})

	return nil
}

// SetQuantity stores a directly entered quantity. Negative values are rejected.
func (m *Model) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity %d: %w", quantity, ErrNegativeQuantity)
	}

	m.update(func() bool {
		if m.quantity == quantity {
			return false
		}
		m.quantity = quantity

		return true
	})

	return nil
}

// IncrementQuantity adds one to the quantity.
func (m *Model) IncrementQuantity() {
	m.update(func() bool {
		m.quantity++
		return true
	})
}

// DecrementQuantity subtracts one from the quantity, never going below zero.
func (m *Model) DecrementQuantity() {
	m.update(func() bool {
		if m.quantity <= 0 {
			return false
		}
		m.quantity--

		return true
	})
}

// IncrementLatitude steps the latitude up by one degree, an unset latitude counting as zero.
func (m *Model) IncrementLatitude() {
	m.update(func() bool {
		return increment(&m.latitude, MaxLatitude)
	})
}

// DecrementLatitude steps the latitude down by one degree, never below zero.
func (m *Model) DecrementLatitude() {
	m.update(func() bool {
		return decrement(&m.latitude)
	})
}

// IncrementLongitude steps the longitude up by one degree, an unset longitude counting as zero.
func (m *Model) IncrementLongitude() {
	m.update(func() bool {
		return increment(&m.longitude, MaxLongitude)
	})
}

// DecrementLongitude steps the longitude down by one degree, never below zero.
func (m *Model) DecrementLongitude() {
	m.update(func() bool {
		return decrement(&m.longitude)
	})
}

// SelectSuggestion sets the medicine id and name together.
func (m *Model) SelectSuggestion(s models.MedicineSuggestion) {
	m.update(func() bool {
		if m.medicineID == s.ID && m.medicineName == s.Name {
			return false
		}
		m.medicineID, m.medicineName = s.ID, s.Name

		return true
	})
}

// ClearSelection resets the medicine id and name together.
func (m *Model) ClearSelection() {
	m.update(func() bool {
		if m.medicineID == "" && m.medicineName == "" {
			return false
		}
		m.medicineID, m.medicineName = "", ""

		return true
	})
}

// update runs mutate under the lock and notifies observers if it reports a change.
func (m *Model) update(mutate func() bool) {
	m.mu.Lock()
	if !mutate() {
		m.mu.Unlock()
		return
	}
	snap := m.snapshotLocked()
	observers := append([]func(Snapshot){}, m.observers...)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func (m *Model) snapshotLocked() Snapshot {
	snap := Snapshot{
		Latitude:     m.latitude.ptr(),
		Longitude:    m.longitude.ptr(),
		Quantity:     m.quantity,
		MedicineID:   m.medicineID,
		MedicineName: m.medicineName,
	}
	if m.latitude.set && m.longitude.set {
		snap.Origin = models.NewOrigin(models.Coordinates{
			Latitude:  m.latitude.value,
			Longitude: m.longitude.value,
		})
	}

	return snap
}

func checkRange(value, limit float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < -limit || value > limit {
		return ErrInvalidCoordinate
	}

	return nil
}

func setOptional(o *optional, value float64) bool {
	if o.set && o.value == value {
		return false
	}
	o.value, o.set = value, true

	return true
}

func increment(o *optional, limit float64) bool {
	next := math.Min(o.value+1, limit)
	if o.set && next == o.value {
		return false
	}
	o.value, o.set = next, true

	return true
}

// decrement floors at zero; an unset value stays unset.
func decrement(o *optional) bool {
	if !o.set || o.value <= 0 {
		return false
	}
	o.value = math.Max(0, o.value-1)

	return true
}

package models

// MedicineSuggestion is a medicine offered by the remote search endpoint while the user types.
type MedicineSuggestion struct {
	ID   string // ID is the backend identifier of the medicine.
	Name string // Name is the display name of the medicine.
}

// Pharmacy describes a store returned by the recommendation service.
type Pharmacy struct {
	ID         string
	BranchName string
	Rating     float64
	AreaName   string
	Address    string
	City       string
	Latitude   float64
	Longitude  float64
}

// Coordinates returns the location of the pharmacy.
func (p Pharmacy) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// StoreMatch pairs a pharmacy with the quantity of the requested medicine it holds.
type StoreMatch struct {
	ID               string
	MedicineQuantity int
	Pharmacy         Pharmacy
}

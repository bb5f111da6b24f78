package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/nearpharma/internal/models"
)

// PredictRequest is the body of the recommendation call. The backend contract
// takes every field as a string, numbers included.
type PredictRequest struct {
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	MedicineQuantity string `json:"medicineQuantity"`
	MedicineID       string `json:"medicineId"`
}

// NewPredictRequest builds the wire body from typed values.
func NewPredictRequest(origin models.Coordinates, quantity int, medicineID string) PredictRequest {
	return PredictRequest{
		Latitude:         strconv.FormatFloat(origin.Latitude, 'f', -1, 64),
		Longitude:        strconv.FormatFloat(origin.Longitude, 'f', -1, 64),
		MedicineQuantity: strconv.Itoa(quantity),
		MedicineID:       medicineID,
	}
}

type predictResponse struct {
	Data []wireStoreMatch `json:"data"`
}

// wireStoreMatch accepts the pharmacy either under "pharmacyId" (populated reference)
// or under "pharmacy".
type wireStoreMatch struct {
	DocumentID       string        `json:"_id"`
	ID               string        `json:"id"`
	MedicineQuantity int           `json:"medicineQuantity"`
	PharmacyRef      *wirePharmacy `json:"pharmacyId"`
	Pharmacy         *wirePharmacy `json:"pharmacy"`
}

type wirePharmacy struct {
	DocumentID string  `json:"_id"`
	ID         string  `json:"id"`
	BranchName string  `json:"branchName"`
	Rating     float64 `json:"rating"`
	AreaName   string  `json:"areaName"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func (w wireStoreMatch) model() models.StoreMatch {
	match := models.StoreMatch{
		ID:               firstNonEmpty(w.ID, w.DocumentID),
		MedicineQuantity: w.MedicineQuantity,
	}

	pharmacy := w.Pharmacy
	if pharmacy == nil {
		pharmacy = w.PharmacyRef
	}

	if pharmacy != nil {
		match.Pharmacy = models.Pharmacy{
			ID:         firstNonEmpty(pharmacy.ID, pharmacy.DocumentID),
			BranchName: pharmacy.BranchName,
			Rating:     pharmacy.Rating,
			AreaName:   pharmacy.AreaName,
			Address:    pharmacy.Address,
			City:       pharmacy.City,
			Latitude:   pharmacy.Latitude,
			Longitude:  pharmacy.Longitude,
		}
	}

	return match
}

// Predict asks the backend for the stores that hold the requested medicine near the origin.
// The matches keep the order of the response.
func (c *Client) Predict(ctx context.Context, form PredictRequest) ([]models.StoreMatch, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode predict request: %w", err)
	}

	c.log.DebugContext(ctx, "Predict request", "body", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		c.log.ErrorContext(ctx, "Predict API error", "status", resp.StatusCode, "body", string(body))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result predictResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}

	matches := make([]models.StoreMatch, 0, len(result.Data))
	for _, item := range result.Data {
		matches = append(matches, item.model())
	}

	c.log.DebugContext(ctx, "Predict finished", "matches", len(matches))

	return matches, nil
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/UnknownOlympus/nearpharma/internal/models"
)

// ErrNoMatches is returned when the search endpoint answers 400 or 404.
var ErrNoMatches = errors.New("no medicines match the query")

// suggestionResponse represents the JSON response of the search endpoint.
type suggestionResponse struct {
	Data []wireSuggestion `json:"data"`
}

// wireSuggestion accepts both the document id (_id) and a plain id.
type wireSuggestion struct {
	DocumentID   string `json:"_id"`
	ID           string `json:"id"`
	MedicineName string `json:"medicineName"`
}

func (w wireSuggestion) model() models.MedicineSuggestion {
	id := w.ID
	if id == "" {
		id = w.DocumentID
	}

	return models.MedicineSuggestion{ID: id, Name: w.MedicineName}
}

// SearchMedicines looks up medicines whose name matches the given text.
// The text is sent as typed, including an empty string.
// A 400 or 404 answer is reported as ErrNoMatches.
func (c *Client) SearchMedicines(ctx context.Context, name string) ([]models.MedicineSuggestion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("name", name)
	reqURL.RawQuery = query.Encode()

	c.log.DebugContext(ctx, "Medicine search request", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		// continue
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusBadRequest:
		c.log.DebugContext(ctx, "Medicine search returned no matches", "name", name, "status", resp.StatusCode)
		return nil, ErrNoMatches
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.ErrorContext(ctx, "Medicine search API error", "status", resp.StatusCode, "body", string(body))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result suggestionResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	suggestions := make([]models.MedicineSuggestion, 0, len(result.Data))
	for _, item := range result.Data {
		suggestions = append(suggestions, item.model())
	}

	c.log.DebugContext(ctx, "Medicine search finished", "name", name, "results", len(suggestions))

	return suggestions, nil
}

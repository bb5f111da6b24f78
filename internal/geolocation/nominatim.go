package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/models"
)

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	nominatimUserAgent = "NearPharma/1.0 (https://github.com/UnknownOlympus/nearpharma)"
)

// NominatimProvider resolves a configured home address through OpenStreetMap's Nominatim API.
// Hosts without a positioning device use it to derive their location once per request.
type NominatimProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Nominatim API
	address string       // Address to resolve
	log     *slog.Logger // Logger for logging operations
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type nominatimResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
	ErrNoAddress              = errors.New("no address configured")
)

// NewNominatimProvider creates a provider that resolves address with the public Nominatim endpoint.
func NewNominatimProvider(address string, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(&http.Client{Timeout: timeout * time.Second}, address, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
func NewNominatimProviderWithClient(client HTTPClient, address string, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		address:   strings.TrimSpace(address),
		log:       log,
		userAgent: nominatimUserAgent,
	}
}

// Locate resolves the configured address. Rural addresses often miss in Nominatim, so
// progressively shorter variations are tried: the full address, the address without its last
// component, without its last two components, and finally the first component alone.
func (np *NominatimProvider) Locate(ctx context.Context) (*models.Coordinates, error) {
	if np.address == "" {
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, ErrNoAddress)
	}

	np.log.DebugContext(ctx, "Locating using Nominatim", "address", np.address)

	variations := addressFallbacks(np.address)
	for idx, variation := range variations {
		coords, err := np.resolve(ctx, variation)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Located using fallback address",
					"original", np.address,
					"fallback", variation,
					"fallback_level", idx)
			}
			return coords, nil
		}

		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
		}

		np.log.DebugContext(ctx, "Address variation returned no results, trying fallback",
			"variation", variation,
			"fallback_level", idx)
	}

	np.log.WarnContext(ctx, "All address fallbacks exhausted",
		"address", np.address,
		"variations_tried", len(variations))

	return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, ErrNominatimEmptyResponse)
}

func addressFallbacks(address string) []string {
	seen := make(map[string]bool)
	variations := []string{}

	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	add(address)

	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 1 {
		add(strings.Join(parts[:len(parts)-1], ", "))

		const lenComponents = 2
		if len(parts) > lenComponents {
			add(strings.Join(parts[:len(parts)-2], ", "))
		}

		add(parts[0])
	}

	return variations
}

func (np *NominatimProvider) resolve(ctx context.Context, address string) (*models.Coordinates, error) {
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	lat, err := parseCoordinate(results[0].Lat, 90)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := parseCoordinate(results[0].Lon, 180)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.Abs(value) > limit {
		return 0, ErrNominatimInvalidCoords
	}
	return value, nil
}

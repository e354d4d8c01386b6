package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"go.uber.org/zap"
)

const userAgent = "job-portal/1.0"

// NominatimClient resolves free-text addresses against a Nominatim search
// endpoint. The first result wins; zero results is domain.ErrGeocodeNoResults.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewNominatimClient(baseURL string, timeout time.Duration, log *logger.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Named("NominatimClient"),
	}
}

// nominatimResult is the subset of the search response we consume. Nominatim
// serializes coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *NominatimClient) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)

	endpoint := c.baseURL + "/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to build geocode request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Geocode request failed", zap.String("address", address), zap.Error(err))
		return domain.Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, domain.ErrGeocodeNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder returned malformed latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder returned malformed longitude %q: %w", results[0].Lon, err)
	}

	c.logger.Debug("Geocoded address", zap.String("address", address), zap.Float64("lat", lat), zap.Float64("lng", lng))
	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}

var _ domain.Geocoder = (*NominatimClient)(nil)

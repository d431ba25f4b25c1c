package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// NominatimReverseResponse is the subset of the Nominatim /reverse payload we read
type NominatimReverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

// Locality returns the first non-empty of city, town, village, municipality
func (r *NominatimReverseResponse) Locality() string {
	for _, name := range []string{r.Address.City, r.Address.Town, r.Address.Village, r.Address.Municipality} {
		if name != "" {
			return name
		}
	}
	return ""
}

// NominatimGeocoder resolves coordinates to a city name via OpenStreetMap Nominatim
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// ReverseCity returns the locality name for lat/lng. An empty name with a nil
// error means the lookup succeeded but the place has no city-like field.
func (g *NominatimGeocoder) ReverseCity(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Add("format", "json")
	requestURL := fmt.Sprintf("%s/reverse?%s", g.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim rejects requests without an identifying agent
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Nominatim: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, string(body))
	}

	var result NominatimReverseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Locality(), nil
}

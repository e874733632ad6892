package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Typed failures surfaced to callers. Timeouts and upstream errors are
// recoverable per record and must never corrupt already stored coordinates.
var (
	ErrNotFound = errors.New("geocode: address not found")
	ErrTimeout  = errors.New("geocode: request timed out")
	ErrUpstream = errors.New("geocode: upstream error")
)

// DefaultBaseURL is the public BAN address API used by the association.
const DefaultBaseURL = "https://api-adresse.data.gouv.fr"

// Client is an HTTP Geocoder against the BAN address API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// banResponse mirrors the GeoJSON FeatureCollection returned by the API.
// Coordinates are decoded as json.Number to keep their decimal precision.
type banResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []json.Number `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Postcode string  `json:"postcode"`
			City     string  `json:"city"`
			Score    float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves the query against the /search endpoint, best match first.
func (c *Client) Geocode(ctx context.Context, q Query) (*Result, error) {
	text := strings.TrimSpace(strings.Join([]string{q.StreetNumber, q.StreetName, q.City}, " "))
	if text == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("q", text)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return nil, ErrTimeout
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: http %d", ErrUpstream, resp.StatusCode)
	}

	var body banResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	if len(body.Features) == 0 {
		return nil, ErrNotFound
	}

	feat := body.Features[0]
	if len(feat.Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("%w: malformed geometry", ErrUpstream)
	}

	// GeoJSON stores [longitude, latitude].
	return &Result{
		Latitude:   feat.Geometry.Coordinates[1].String(),
		Longitude:  feat.Geometry.Coordinates[0].String(),
		PostalCode: feat.Properties.Postcode,
	}, nil
}

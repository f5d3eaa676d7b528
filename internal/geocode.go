package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Location is the (country, region, city) triple derived from coordinates.
type Location struct {
	Country string
	Region  string
	City    string
}

// UnknownLocation marks media without usable coordinates or with a failed
// reverse lookup.
var UnknownLocation = Location{Country: "unknown", Region: "unknown", City: "unknown"}

// Geocoder converts a coordinate pair into a location. A single lookup
// attempt per call; rate-limiting is the service's concern.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Location, error)
}

// NominatimGeocoder resolves coordinates against a Nominatim reverse
// endpoint.
type NominatimGeocoder struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func NewNominatimGeocoder(cfg *Config) *NominatimGeocoder {
	return &NominatimGeocoder{
		endpoint:  cfg.GeocodeURL,
		userAgent: cfg.GeocodeAgent,
		client:    &http.Client{Timeout: cfg.GeocodeTimeout},
	}
}

type nominatimResponse struct {
	Address struct {
		Country string `json:"country"`
		State   string `json:"state"`
		City    string `json:"city"`
	} `json:"address"`
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("reverse lookup returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("malformed reverse lookup response: %w", err)
	}

	if body.Address.Country == "" {
		return Location{}, fmt.Errorf("reverse lookup response has no address")
	}

	loc := Location{
		Country: body.Address.Country,
		Region:  body.Address.State,
		City:    body.Address.City,
	}
	if loc.Region == "" {
		loc.Region = "unknown"
	}
	if loc.City == "" {
		loc.City = "unknown"
	}

	return loc, nil
}

// ResolveLocation degrades every lookup problem to UnknownLocation: either
// coordinate absent or zero, and any Geocoder failure. A zero coordinate
// skips the lookup entirely.
func ResolveLocation(ctx context.Context, g Geocoder, lat, lon *float64) Location {
	if lat == nil || lon == nil || *lat == 0 || *lon == 0 {
		return UnknownLocation
	}

	loc, err := g.Reverse(ctx, *lat, *lon)
	if err != nil {
		return UnknownLocation
	}
	return loc
}

// Package geocoding turns free-text event locations into coordinates.  The
// Resolver is total: every input yields a Coordinate, with a static city table
// and the neutral point (20, 0) standing in when the backend cannot answer.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Neutral is returned for global or unresolvable locations.
var Neutral = Coordinate{Lat: 20, Lng: 0}

// Backend looks up the first match for a free-text query.
type Backend interface {
	Search(ctx context.Context, query string) (Coordinate, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, query string) (Coordinate, error)

// Search implements Backend.
func (f BackendFunc) Search(ctx context.Context, query string) (Coordinate, error) {
	return f(ctx, query)
}

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "SupplyChainRiskRadar/1.0"
)

// NominatimConfig configures the OpenStreetMap search client.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Nominatim queries the OpenStreetMap /search endpoint.  Nominatim's usage
// policy asks for a descriptive User-Agent and at most one request per second;
// the Resolver enforces the spacing.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    logging.Logger
}

// NewNominatim builds a Nominatim client with defaults for unset fields.
func NewNominatim(cfg NominatimConfig, logger logging.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search implements Backend.  It fails with ErrCodeGeocodingFailed on a non-2xx
// status, an empty result list or an unparsable coordinate.
func (n *Nominatim) Search(ctx context.Context, query string) (Coordinate, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Coordinate{}, errors.Wrap(err, errors.ErrCodeGeocodingFailed, "failed to build geocoding request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return Coordinate{}, errors.Wrap(err, errors.ErrCodeGeocodingFailed, "geocoding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Coordinate{}, errors.New(errors.ErrCodeGeocodingFailed, "geocoding backend returned an error").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Coordinate{}, errors.Wrap(err, errors.ErrCodeGeocodingFailed, "failed to read geocoding response")
	}
	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return Coordinate{}, errors.Wrap(err, errors.ErrCodeGeocodingFailed, "failed to decode geocoding response")
	}
	if len(places) == 0 {
		return Coordinate{}, errors.New(errors.ErrCodeGeocodingFailed, "no geocoding results").WithDetail(query)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return Coordinate{}, errors.New(errors.ErrCodeGeocodingFailed, "invalid coordinates in geocoding response").
			WithDetail(places[0].Lat + "," + places[0].Lon)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

//Personal.AI order the ending

// Package openweather reads current conditions for a fixed list of cities
// from the OpenWeather API.  Cities that fail are skipped; the client never
// returns an error to the event pipeline.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/weather"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// DefaultCities are watched when none are configured.
var DefaultCities = []string{"Chennai", "Singapore", "Iceland", "New York"}

// Config configures the OpenWeather client.
type Config struct {
	BaseURL string
	APIKey  string
	Cities  []string
	Timeout time.Duration
}

// Client is an event.Source over the OpenWeather current-conditions endpoint.
type Client struct {
	cfg     Config
	http    *http.Client
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	now     func() time.Time
}

var _ event.Source = (*Client)(nil)

// NewClient builds a Client with defaults for unset fields.
func NewClient(cfg Config, logger logging.Logger, metrics *prometheus.AppMetrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Cities) == 0 {
		cfg.Cities = DefaultCities
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("weather"),
		metrics: metrics,
		now:     time.Now,
	}
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type apiResponse struct {
	Name    string      `json:"name"`
	Message string      `json:"message"`
	Weather []condition `json:"weather"`
	Coord   struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

// Observations fetches every configured city in parallel and returns those
// that answered, in configuration order.
func (c *Client) Observations(ctx context.Context) []weather.Observation {
	results := make([]*weather.Observation, len(c.cfg.Cities))
	var g errgroup.Group
	for i, city := range c.cfg.Cities {
		g.Go(func() error {
			o, err := c.fetchCity(ctx, city)
			if err != nil {
				c.logger.Warn("weather fetch failed", logging.String("city", city), logging.Err(err))
				prometheus.RecordError(c.metrics, "weather", string(errors.GetCode(err)))
				return nil
			}
			results[i] = o
			return nil
		})
	}
	_ = g.Wait()

	out := make([]weather.Observation, 0, len(results))
	for _, o := range results {
		if o != nil {
			out = append(out, *o)
		}
	}
	c.logger.Info("weather fetched", logging.Int("cities", len(c.cfg.Cities)), logging.Int("answered", len(out)))
	return out
}

// FetchEvents implements event.Source.  Only disruptive conditions become
// events.
func (c *Client) FetchEvents(ctx context.Context) []event.Event {
	var events []event.Event
	for _, o := range c.Observations(ctx) {
		if o.Disruptive() {
			events = append(events, o.Event())
		}
	}
	return events
}

func (c *Client) fetchCity(ctx context.Context, city string) (*weather.Observation, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeUpstreamSourceUnavailable, "weather api key is not configured")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to build weather request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "weather request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to read weather response")
	}
	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to decode weather response").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeUpstreamSourceUnavailable, "weather api returned an error").
			WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode, decoded.Message))
	}
	if len(decoded.Weather) == 0 {
		return nil, errors.New(errors.ErrCodeUpstreamSourceUnavailable, "weather response has no conditions")
	}

	now := c.now().UTC()
	location := decoded.Name
	if location == "" {
		location = city
	}
	cond := decoded.Weather[0]
	return &weather.Observation{
		ID:          fmt.Sprintf("weather_%s_%d", strings.ToLower(city), now.UnixMilli()),
		Date:        now.Format(time.RFC3339),
		Location:    location,
		Lat:         decoded.Coord.Lat,
		Lng:         decoded.Coord.Lon,
		Description: cond.Description,
		Impact:      weather.MapConditions(cond.Main, cond.Description),
	}, nil
}

//Personal.AI order the ending

// Package news ingests supply-chain headlines from NewsAPI and shapes them
// into events: location guessing, severity and relevance scoring, off-topic
// filtering.  The source never fails; upstream trouble yields a placeholder
// Global event the enricher filters out.
package news

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

	"github.com/google/uuid"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const (
	DefaultBaseURL  = "https://newsapi.org/v2"
	DefaultQuery    = "supply chain"
	DefaultPageSize = 5

	// MinRelevance is the score an article needs to be kept when at least one
	// article reaches it.
	MinRelevance = 0.2
	// fallbackCount articles are kept by position when none is relevant.
	fallbackCount = 2
)

// Config configures the NewsAPI client.
type Config struct {
	BaseURL  string
	APIKey   string
	Query    string
	Language string
	PageSize int
	Timeout  time.Duration
}

// Client is an event.Source backed by the NewsAPI /everything endpoint.
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
	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
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
		logger:  logger.Named("news"),
		metrics: metrics,
		now:     time.Now,
	}
}

type apiSource struct {
	Name string `json:"name"`
}

type article struct {
	Source      apiSource `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt string    `json:"publishedAt"`
}

type apiResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

// FetchEvents implements event.Source.
func (c *Client) FetchEvents(ctx context.Context) []event.Event {
	articles, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error("news fetch failed, returning placeholder", logging.Err(err))
		prometheus.RecordError(c.metrics, "news", string(errors.GetCode(err)))
		return []event.Event{c.placeholder()}
	}

	events := make([]event.Event, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.Title) == "" || IsOffTopic(a.Title, a.Description) {
			continue
		}
		events = append(events, c.toEvent(a))
	}

	kept := make([]event.Event, 0, len(events))
	for _, e := range events {
		if rel, _ := e.Relevance(); rel >= MinRelevance {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		c.logger.Warn("no relevant news, keeping top articles", logging.Int("articles", len(events)))
		kept = events[:minInt(fallbackCount, len(events))]
	}
	if len(kept) == 0 {
		c.logger.Warn("news feed empty, injecting demo event")
		kept = []event.Event{c.demo()}
	}

	c.logger.Info("news fetched", logging.Int("kept", len(kept)), logging.Int("articles", len(articles)))
	return kept
}

func (c *Client) fetch(ctx context.Context) ([]article, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeUpstreamSourceUnavailable, "news api key is not configured")
	}

	q := url.Values{}
	q.Set("q", c.cfg.Query)
	q.Set("language", c.cfg.Language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to build news request")
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "news request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to read news response")
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamSourceUnavailable, "failed to decode news response").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK || decoded.Status == "error" {
		return nil, errors.New(errors.ErrCodeUpstreamSourceUnavailable, "news api returned an error").
			WithDetail(fmt.Sprintf("status %d: %s %s", resp.StatusCode, decoded.Code, decoded.Message))
	}
	return decoded.Articles, nil
}

func (c *Client) toEvent(a article) event.Event {
	text := a.Title + " " + a.Description
	desc := a.Description
	if desc == "" {
		desc = "No description available"
	}
	source := a.Source.Name
	if source == "" {
		source = "Unknown"
	}
	date := a.PublishedAt
	if date == "" {
		date = c.now().UTC().Format(time.RFC3339)
	}
	return event.Event{
		ID:             uuid.NewString(),
		Headline:       a.Title,
		Location:       ExtractLocation(a.Title, a.Description),
		Date:           date,
		Description:    desc,
		Source:         source,
		URL:            a.URL,
		Severity:       ClassifySeverity(text),
		RelevanceScore: event.Relevance(RelevanceScore(text)),
		Category:       "news",
		Lang:           c.cfg.Language,
	}
}

// demo stands in when the feed answered but had nothing to offer, so the
// dashboard still shows the pipeline working end to end.
func (c *Client) demo() event.Event {
	return event.Event{
		ID:             uuid.NewString(),
		Headline:       "Chennai floods halt textile production",
		Location:       "Chennai, India",
		Date:           c.now().UTC().Format(time.RFC3339),
		Description:    "Heavy monsoon rains have forced multiple factories to suspend operations.",
		Source:         "Dinamalar (Tamil)",
		URL:            "https://example.com/chennai-floods",
		Severity:       event.SeverityHigh,
		RelevanceScore: event.Relevance(0.9),
		Category:       "weather_impact",
		Lang:           "ta",
	}
}

func (c *Client) placeholder() event.Event {
	return event.Event{
		ID:             uuid.NewString(),
		Headline:       "No news available",
		Location:       event.GlobalLocation,
		Date:           c.now().UTC().Format(time.RFC3339),
		Description:    "News API failed. Showing placeholder event.",
		Source:         "System",
		Severity:       event.SeverityLow,
		RelevanceScore: event.Relevance(0),
		Category:       "system",
		Lang:           "en",
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

//Personal.AI order the ending

package sofascore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/halfstats/ingestor/internal/domain/match"
	"github.com/halfstats/ingestor/internal/platform/cache"
	"github.com/halfstats/ingestor/internal/platform/logging"
	"github.com/halfstats/ingestor/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://api.sofascore.com/api/v1"
	defaultUserAgent = "Mozilla/5.0 (compatible; Ingestor/1.0)"
	maxBodyBytes     = 6 << 20

	// Round listings are fetched during discovery and again during
	// ingestion; caching the decoded payload for the run window avoids
	// the duplicate round trip.
	responseCacheTTL = 5 * time.Minute
)

// ErrUnavailable marks a resource the provider could not serve within
// the retry budget. Callers treat it as "data unavailable" and degrade,
// never abort the run.
var ErrUnavailable = crerr.New("provider resource unavailable")

var errProviderTransient = crerr.New("provider transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	ProxyBaseURL   string
	UserAgent      string
	Timeout        time.Duration
	MaxAttempts    int
	Backoff        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client issues idempotent reads against the upstream statistics API
// with bounded retry, an optional fetch proxy, a circuit breaker and a
// short-lived read-through response cache.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	proxyBaseURL   string
	userAgent      string
	retry          resilience.RetryConfig
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	responses      *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 25 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 4
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 700 * time.Millisecond
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		proxyBaseURL:   strings.TrimRight(strings.TrimSpace(cfg.ProxyBaseURL), "/"),
		userAgent:      userAgent,
		retry:          resilience.RetryConfig{Attempts: attempts, Backoff: backoff},
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		responses:      cache.NewStore(responseCacheTTL),
	}
}

// Rounds fetches the authoritative round listing for a season. An empty
// slice with a nil error means the provider has no listing; callers
// fall back to probing.
func (c *Client) Rounds(ctx context.Context, tournamentID, seasonID int64) ([]int, error) {
	path := fmt.Sprintf("/unique-tournament/%d/season/%d/rounds", tournamentID, seasonID)
	root, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, 64)
	out := make([]int, 0, 64)
	for _, raw := range listOfMaps(firstPresent(root, "rounds", "data")) {
		number, ok := intAny(raw, "number", "round", "id")
		if !ok {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, number)
	}
	sort.Ints(out)
	return out, nil
}

// EventsForRound fetches a round's events, trying the round-path shape
// first and the query-parameter variant as fallback.
func (c *Client) EventsForRound(ctx context.Context, tournamentID, seasonID int64, round int) ([]match.Event, error) {
	primary := fmt.Sprintf("/unique-tournament/%d/season/%d/events/round/%d", tournamentID, seasonID, round)
	if events, err := c.eventsFrom(ctx, primary); err == nil && len(events) > 0 {
		return events, nil
	}

	fallback := fmt.Sprintf("/unique-tournament/%d/season/%d/events?round=%d", tournamentID, seasonID, round)
	events, err := c.eventsFrom(ctx, fallback)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) eventsFrom(ctx context.Context, path string) ([]match.Event, error) {
	root, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	items := listOfMaps(firstPresent(root, "events", "data"))
	out := make([]match.Event, 0, len(items))
	for _, raw := range items {
		event, ok := parseEvent(raw)
		if !ok {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

// EventDetail fetches one event's detail record.
func (c *Client) EventDetail(ctx context.Context, eventID int64) (match.Event, error) {
	root, err := c.getJSON(ctx, fmt.Sprintf("/event/%d", eventID))
	if err != nil {
		return match.Event{}, err
	}

	detail := mapValue(root["event"])
	if detail == nil {
		return match.Event{}, fmt.Errorf("%w: event %d has no detail payload", ErrUnavailable, eventID)
	}
	event, ok := parseEvent(detail)
	if !ok {
		return match.Event{}, fmt.Errorf("%w: event %d detail is unparseable", ErrUnavailable, eventID)
	}
	return event, nil
}

// Statistics fetches and flattens an event's statistics payload into
// tagged entries. A missing statistics resource degrades to an empty
// sequence.
func (c *Client) Statistics(ctx context.Context, eventID int64) ([]StatEntry, error) {
	root, err := c.getJSON(ctx, fmt.Sprintf("/event/%d/statistics", eventID))
	if err != nil {
		if crerr.Is(err, ErrUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	return flattenStatistics(root), nil
}

// Incidents fetches an event's goal and card incidents. A missing
// incidents resource degrades to an empty list.
func (c *Client) Incidents(ctx context.Context, eventID int64) ([]match.Incident, error) {
	root, err := c.getJSON(ctx, fmt.Sprintf("/event/%d/incidents", eventID))
	if err != nil {
		if crerr.Is(err, ErrUnavailable) {
			return nil, nil
		}
		return nil, err
	}

	items := listOfMaps(root["incidents"])
	out := make([]match.Incident, 0, len(items))
	for _, raw := range items {
		out = append(out, parseIncident(raw))
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string) (map[string]any, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: upstream provider is temporarily unavailable", ErrUnavailable)
		}
	}

	fullURL := c.baseURL + path
	requestURL := fullURL
	if c.proxyBaseURL != "" {
		requestURL = c.proxyBaseURL + "/fetch?url=" + url.QueryEscape(fullURL)
	}

	out, err := c.responses.GetOrLoad(ctx, fullURL, func(ctx context.Context) (any, error) {
		root, reqErr := c.executeRequest(ctx, requestURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		if reqErr != nil {
			return nil, reqErr
		}
		return root, nil
	})
	if err != nil {
		if crerr.Is(err, errProviderTransient) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, fullURL)
		}
		return nil, err
	}

	root, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return root, nil
}

// executeRequest runs the bounded retry loop: transport errors,
// throttling statuses (403, 429, 503) and garbled 2xx bodies retry
// with linear backoff, any other non-2xx status is definitive.
func (c *Client) executeRequest(ctx context.Context, requestURL string) (map[string]any, error) {
	root, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) (map[string]any, resilience.Outcome, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, resilience.OutcomeFatal, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, resilience.OutcomeRetryable, fmt.Errorf("%w: send request: %v", errProviderTransient, err)
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resilience.OutcomeRetryable, fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			var root map[string]any
			if decodeErr := sonic.Unmarshal(body, &root); decodeErr != nil {
				return nil, resilience.OutcomeRetryable, fmt.Errorf("%w: decode provider payload: %v", errProviderTransient, decodeErr)
			}
			return root, resilience.OutcomeSuccess, nil
		case isRetryableStatus(resp.StatusCode):
			return nil, resilience.OutcomeRetryable, fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(body))
		case resp.StatusCode == http.StatusNotFound:
			return nil, resilience.OutcomeFatal, fmt.Errorf("%w: provider status=404", ErrUnavailable)
		default:
			return nil, resilience.OutcomeFatal, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(body))
		}
	})
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed", "url", requestURL, "error", err)
		return nil, err
	}
	return root, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

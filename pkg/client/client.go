package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/tracing"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

var tracer = otel.Tracer("temperature-compliance-client")

type TemperatureClient interface {
	SubmitReading(ctx context.Context, reading types.ReadingSubmission) (types.ReadingSummary, error)
	ListReadings(ctx context.Context, params ListParams) ([]types.ReadingSummary, types.Pagination, error)
	ClearCache()
}

// APIError is returned for every response with a 4xx status code
type APIError struct {
	StatusCode int
	Message    string
	Details    []types.ValidationDetail
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
}

type ListParams struct {
	SensorID   string
	LocationID string
	StartDate  string
	EndDate    string
	AlertsOnly bool
	Limit      int
	Offset     int
}

func (p ListParams) query() string {
	q := url.Values{}

	if p.SensorID != "" {
		q.Set("sensorId", p.SensorID)
	}
	if p.LocationID != "" {
		q.Set("locationId", p.LocationID)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	if p.AlertsOnly {
		q.Set("alertsOnly", "true")
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}

	if len(q) == 0 {
		return ""
	}

	return "?" + q.Encode()
}

type Option func(*temperatureClient)

func WithBearerToken(token string) Option {
	return func(c *temperatureClient) {
		c.token = token
	}
}

// WithClientCredentials fetches and refreshes access tokens from tokenURL
// instead of using a static bearer token
func WithClientCredentials(ctx context.Context, tokenURL, clientID, clientSecret string) Option {
	return func(c *temperatureClient) {
		oauthConfig := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		}
		c.httpClient = oauthConfig.Client(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	}
}

// WithRetries sets how many times a failed list request is retried. Attempt n
// waits n times delay before it is sent. Submits are sent once unless
// WithRetriedSubmits is also given.
func WithRetries(count int, delay time.Duration) Option {
	return func(c *temperatureClient) {
		c.retries = count
		c.retryDelay = delay
	}
}

// WithRetriedSubmits applies the retry policy to submits as well. The server
// stores every submit it receives, so a submit whose response was lost is
// stored twice when it is retried.
func WithRetriedSubmits() Option {
	return func(c *temperatureClient) {
		c.retrySubmits = true
	}
}

// WithCacheTTL sets how long list results are reused. A zero ttl disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *temperatureClient) {
		c.cacheTTL = ttl
	}
}

type temperatureClient struct {
	url        string
	token      string
	httpClient *http.Client

	retries      int
	retryDelay   time.Duration
	retrySubmits bool

	cacheTTL time.Duration
	cache    *cache.Cache
}

func New(baseURL string, opts ...Option) TemperatureClient {
	c := &temperatureClient{
		url: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retries:    3,
		retryDelay: time.Second,
		cacheTTL:   5 * time.Minute,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.cache = cache.New(c.cacheTTL, 2*c.cacheTTL+time.Minute)

	return c
}

func (c *temperatureClient) SubmitReading(ctx context.Context, reading types.ReadingSubmission) (types.ReadingSummary, error) {
	var err error
	ctx, span := tracer.Start(ctx, "submit-reading")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	b, err := json.Marshal(reading)
	if err != nil {
		return types.ReadingSummary{}, fmt.Errorf("failed to marshal reading: %w", err)
	}

	response := struct {
		Data types.ReadingSummary `json:"data"`
	}{}

	retries := 0
	if c.retrySubmits {
		retries = c.retries
	}

	err = c.do(ctx, http.MethodPost, c.url+"/api/v0/temperature", b, &response, retries)
	if err != nil {
		return types.ReadingSummary{}, err
	}

	c.ClearCache()

	return response.Data, nil
}

type listResponse struct {
	Data       []types.ReadingSummary `json:"data"`
	Pagination types.Pagination       `json:"pagination"`
}

func (c *temperatureClient) ListReadings(ctx context.Context, params ListParams) ([]types.ReadingSummary, types.Pagination, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-readings")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	u := c.url + "/api/v0/temperature" + params.query()

	if c.cacheTTL > 0 {
		if cached, ok := c.cache.Get(u); ok {
			r := cached.(listResponse)
			return r.Data, r.Pagination, nil
		}
	}

	response := listResponse{}

	err = c.do(ctx, http.MethodGet, u, nil, &response, c.retries)
	if err != nil {
		return nil, types.Pagination{}, err
	}

	if c.cacheTTL > 0 {
		c.cache.Set(u, response, cache.DefaultExpiration)
	}

	return response.Data, response.Pagination, nil
}

func (c *temperatureClient) ClearCache() {
	c.cache.Flush()
}

var errServer = errors.New("server error")

func (c *temperatureClient) do(ctx context.Context, method, u string, body []byte, result any, retries int) error {
	log := logging.GetLoggerFromContext(ctx)

	var err error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			log.Debug().Err(err).Msgf("retrying %s %s (attempt %d)", method, u, attempt)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		err = c.send(ctx, method, u, body, result)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return err
		}
	}

	return err
}

func (c *temperatureClient) send(ctx context.Context, method, u string, body []byte, result any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status code %d", errServer, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

		errorBody := struct {
			Error   string                   `json:"error"`
			Details []types.ValidationDetail `json:"details"`
		}{}
		if json.Unmarshal(respBody, &errorBody) == nil && errorBody.Error != "" {
			apiErr.Message = errorBody.Error
			apiErr.Details = errorBody.Details
		}

		return apiErr
	}

	err = json.Unmarshal(respBody, result)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

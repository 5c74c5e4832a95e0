package themealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.MealCatalog = (*Client)(nil)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// Config configures the catalogue client.
type Config struct {
	// BaseURL is the API root. Defaults to domain.DefaultCatalogBaseURL.
	BaseURL string

	// RequestsPerSecond and Burst configure the token bucket.
	RequestsPerSecond float64
	Burst             int

	// Timeout bounds each request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from the catalogue settings.
func ConfigFromSettings(s domain.CatalogSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		Timeout:           s.Timeout,
	}
}

// Client talks to TheMealDB.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	limiter  *rateLimiter
	validate *validator.Validate
}

// New creates a catalogue client.
func New(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = domain.DefaultCatalogBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing catalogue base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: catalogue base URL must be http(s): %s", domain.ErrInvalidInput, raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultCatalogTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:  base,
		http:     httpClient,
		limiter:  newRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		validate: newValidator(),
	}, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// RandomMeal returns one random meal.
func (c *Client) RandomMeal(ctx context.Context) (*domain.Meal, error) {
	var env mealsEnvelope
	if err := c.get(ctx, "random.php", nil, &env); err != nil {
		return nil, err
	}
	if len(env.Meals) == 0 {
		return nil, fmt.Errorf("random.php: %w", domain.ErrNotFound)
	}
	meal := env.Meals[0].toDomain()
	return &meal, nil
}

// Categories returns every category.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var env categoriesEnvelope
	if err := c.get(ctx, "categories.php", nil, &env); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(env.Categories))
	for i := range env.Categories {
		out = append(out, env.Categories[i].toDomain())
	}
	return out, nil
}

// MealsByCategory returns the summaries listed under category.
func (c *Client) MealsByCategory(ctx context.Context, category string) ([]domain.MealSummary, error) {
	var env summariesEnvelope
	if err := c.get(ctx, "filter.php", url.Values{"c": {category}}, &env); err != nil {
		return nil, err
	}
	out := make([]domain.MealSummary, 0, len(env.Meals))
	for i := range env.Meals {
		out = append(out, env.Meals[i].toDomain())
	}
	return out, nil
}

// MealByID looks up one meal. Returns domain.ErrNotFound for unknown IDs.
func (c *Client) MealByID(ctx context.Context, id string) (*domain.Meal, error) {
	var env mealsEnvelope
	if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &env); err != nil {
		return nil, err
	}
	if len(env.Meals) == 0 {
		return nil, fmt.Errorf("meal %s: %w", id, domain.ErrNotFound)
	}
	meal := env.Meals[0].toDomain()
	return &meal, nil
}

// Search returns meals whose name matches query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Meal, error) {
	var env mealsEnvelope
	if err := c.get(ctx, "search.php", url.Values{"s": {query}}, &env); err != nil {
		return nil, err
	}
	out := make([]domain.Meal, 0, len(env.Meals))
	for i := range env.Meals {
		out = append(out, env.Meals[i].toDomain())
	}
	return out, nil
}

// get performs a throttled GET and decodes the JSON envelope into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, endpoint, err)
	}

	u := c.baseURL.JoinPath(endpoint)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("catalogue GET %s", u.Redacted())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(parseRetryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: empty body", domain.ErrMalformedResponse, endpoint)
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, endpoint, err)
	}

	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, endpoint, err)
	}

	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

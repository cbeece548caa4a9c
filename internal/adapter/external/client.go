package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ratiohq/cashup/internal/infrastructure/metrics"
)

// Config holds the connection settings for one upstream API. Credentials
// are passed in explicitly; nothing is read from ambient state. Service
// labels the upstream in metrics; Metrics may be nil.
type Config struct {
	BaseURL   string
	APIKey    string
	APIKeyHdr string
	Timeout   time.Duration
	Service   string
	Metrics   *metrics.Metrics
}

// client is the shared HTTP plumbing behind the upstream adapters.
type client struct {
	cfg  Config
	http *http.Client
}

func newClient(cfg Config) *client {
	if cfg.APIKeyHdr == "" {
		cfg.APIKeyHdr = "X-API-Key"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// statusError marks a non-2xx upstream response. 5xx responses are retried,
// 4xx are permanent.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.code, e.body)
}

// getJSON performs a GET with retries and returns the raw response body.
func (c *client) getJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	if c.cfg.Metrics != nil {
		start := time.Now()
		defer func() {
			c.cfg.Metrics.UpstreamDuration.WithLabelValues(c.cfg.Service).Observe(time.Since(start).Seconds())
		}()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 15 * time.Second

	var body []byte
	err := backoff.Retry(func() error {
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.UpstreamRequests.WithLabelValues(c.cfg.Service).Inc()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set(c.cfg.APIKeyHdr, c.cfg.APIKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
			if resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = raw
		return nil
	}, backoff.WithContext(b, ctx))

	if err != nil && c.cfg.Metrics != nil {
		c.cfg.Metrics.UpstreamErrors.WithLabelValues(c.cfg.Service).Inc()
	}
	return body, err
}

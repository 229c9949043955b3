package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skillsenselab/searchkit/errors"
	"github.com/skillsenselab/searchkit/logger"
	"github.com/skillsenselab/searchkit/resilience"
)

// ServiceName is how the cluster is referred to in errors and status messages.
const ServiceName = "Elasticsearch"

// Client is the capability set the readiness poller needs from the cluster.
type Client interface {
	// Ping probes connectivity without touching any index.
	Ping(ctx context.Context) error

	// NodeInfo returns name, cluster, and version of the answering node.
	NodeInfo(ctx context.Context) (*NodeInfo, error)

	// Health polls cluster health scoped to the given index, waiting up to
	// the configured wait timeout for the configured status.
	Health(ctx context.Context, index string) (*HealthSnapshot, error)

	// CreateIndex creates the index with the given settings. Creating an
	// index that already exists is not an error.
	CreateIndex(ctx context.Context, index string, settings IndexSettings) error
}

// HTTPClient talks to an Elasticsearch-compatible cluster over its REST API.
type HTTPClient struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	limiter    *resilience.RateLimiter
	log        *logger.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a cluster client from config.
func NewHTTPClient(cfg Config, log *logger.Logger) (*HTTPClient, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	c := &HTTPClient{
		httpClient: &http.Client{
			// Health requests block server-side until WaitTimeout, so the
			// transport deadline must sit above it.
			Timeout: cfg.Timeout + cfg.WaitTimeout,
		},
		config: cfg,
		log:    log.WithComponent("search"),
	}

	if cfg.CircuitBreaker != nil {
		c.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		c.limiter = resilience.NewRateLimiter(*cfg.RateLimiter)
	}

	return c, nil
}

// Ping probes connectivity with a HEAD request against the cluster root.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodHead, "/", nil, nil)
	return err
}

// NodeInfo fetches the root document of the answering node.
func (c *HTTPClient) NodeInfo(ctx context.Context) (*NodeInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return nil, err
	}

	var info NodeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Internal(fmt.Errorf("decode node info: %w", err))
	}
	return &info, nil
}

// Health polls _cluster/health scoped to index. A response with
// timed_out=true is a valid snapshot, not an error: it is how the cluster
// reports that the index does not exist yet.
func (c *HTTPClient) Health(ctx context.Context, index string) (*HealthSnapshot, error) {
	query := url.Values{}
	query.Set("wait_for_status", c.config.WaitForStatus)
	query.Set("timeout", fmt.Sprintf("%ds", int(c.config.WaitTimeout/time.Second)))

	path := "/_cluster/health/" + url.PathEscape(index)
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		// A health wait that runs out answers 408 with a regular health
		// body carrying timed_out=true. Surface it as a snapshot.
		if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodeTimeout {
			if raw, ok := appErr.Details["body"].([]byte); ok && len(raw) > 0 {
				var snap HealthSnapshot
				if jsonErr := json.Unmarshal(raw, &snap); jsonErr == nil {
					return &snap, nil
				}
			}
		}
		return nil, err
	}

	var snap HealthSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, errors.Internal(fmt.Errorf("decode health snapshot: %w", err))
	}
	return &snap, nil
}

// CreateIndex issues a PUT for the index. An already-existing index is
// treated as success so provisioning stays idempotent.
func (c *HTTPClient) CreateIndex(ctx context.Context, index string, settings IndexSettings) error {
	_, err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(index), nil, settings.body())
	if err != nil {
		if errors.IsIndexExists(err) {
			c.log.Debug("Index already exists", logger.Fields(logger.FieldIndex, index))
			return nil
		}
		return err
	}

	c.log.Info("Index created", logger.Fields(logger.FieldIndex, index))
	return nil
}

// do executes one request, optionally through the circuit breaker and the
// configured per-request retry policy.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Timeout(method + " " + path).WithCause(err)
		}
	}
	if c.config.Retry != nil {
		return resilience.Retry(ctx, *c.config.Retry, func() ([]byte, error) {
			return c.doOnce(ctx, method, path, query, payload)
		})
	}
	return c.doOnce(ctx, method, path, query, payload)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if c.cb == nil {
		return c.executeRequest(ctx, method, path, query, payload)
	}

	var body []byte
	err := c.cb.Execute(func() error {
		var execErr error
		body, execErr = c.executeRequest(ctx, method, path, query, payload)
		return execErr
	})
	return body, err
}

// executeRequest builds and sends one HTTP request and classifies the outcome.
func (c *HTTPClient) executeRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := strings.TrimRight(c.config.Address, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Internal(fmt.Errorf("encode request body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, errors.InvalidInput("request", err.Error())
	}

	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Username != "" && c.config.Password != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeoutErr(err) {
			return nil, errors.Timeout(method + " " + path).WithCause(err)
		}
		return nil, errors.ConnectionFailed(ServiceName).WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionFailed(ServiceName).WithCause(fmt.Errorf("read response body: %w", err))
	}

	if classErr := classifyStatusCode(resp.StatusCode, body); classErr != nil {
		return body, classErr
	}
	return body, nil
}

// classifyStatusCode converts a non-2xx status into a typed error.
func classifyStatusCode(statusCode int, body []byte) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeIndexNotFound, "HTTP 404", statusCode).WithDetail("body", body)
	case statusCode == http.StatusRequestTimeout:
		return errors.New(errors.ErrCodeTimeout, "HTTP 408", statusCode).WithDetail("body", body)
	case statusCode == http.StatusBadRequest && bytes.Contains(body, []byte("resource_already_exists_exception")):
		return errors.New(errors.ErrCodeIndexExists, "HTTP 400", statusCode).WithDetail("body", body)
	case statusCode == http.StatusServiceUnavailable:
		return errors.ServiceUnavailable(ServiceName).WithDetail("body", body)
	case statusCode >= 500:
		return errors.ExternalServiceError(ServiceName, fmt.Errorf("HTTP %d", statusCode)).WithDetail("body", body)
	default:
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("HTTP %d", statusCode), statusCode).WithDetail("body", body)
	}
}

func isTimeoutErr(err error) bool {
	type timeout interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeout); ok && t.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return false
}

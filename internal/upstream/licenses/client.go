// Package licenses provides the HTTP client for the Licensing Service API,
// shared by the patient portal and the insurer validator.
package licenses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"medlicense/internal/license/models"
	dErrors "medlicense/pkg/domain-errors"
)

// DefaultTimeout bounds every upstream call. A call that outlives it is
// reported as the dependency being unavailable.
const DefaultTimeout = 5 * time.Second

// Client calls the Licensing Service over HTTP and translates its responses
// into domain results and errors. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMetrics enables upstream request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the Licensing Service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the licensing service response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// LicensesByPatient fetches all licenses for a patient.
func (c *Client) LicensesByPatient(ctx context.Context, patientID string) ([]models.License, error) {
	query := url.Values{"patientId": []string{patientID}}
	env, _, err := c.get(ctx, "list_by_patient", "/licenses", query, nil)
	if err != nil {
		return nil, err
	}

	var licenses []models.License
	if err := json.Unmarshal(env.Data, &licenses); err != nil {
		return nil, dErrors.Communication("failed to parse license service response", err)
	}
	return licenses, nil
}

// VerifyLicense checks a folio's validity. An upstream 404 is not an error:
// a folio that does not exist and one that is invalid are the same business
// answer, so both come back as {valid:false}.
func (c *Client) VerifyLicense(ctx context.Context, folio string) (*models.Verification, error) {
	notFound := &models.Verification{Valid: false}
	env, _, err := c.get(ctx, "verify", "/licenses/"+url.PathEscape(folio)+"/verify", nil, notFound)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return notFound, nil
	}

	var verification models.Verification
	if err := json.Unmarshal(env.Data, &verification); err != nil {
		return nil, dErrors.Communication("failed to parse license service response", err)
	}
	return &verification, nil
}

// get performs a GET against the licensing service. When on404 is non-nil a
// 404 response short-circuits to a nil envelope instead of an error; the
// caller substitutes its business answer.
func (c *Client) get(ctx context.Context, operation, path string, query url.Values, on404 any) (*envelope, int, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		if c.metrics != nil {
			c.metrics.Requests.WithLabelValues(operation, outcome).Inc()
			c.metrics.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, dErrors.Communication("failed to communicate with license service", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request went out but no response came back; this covers
		// connection refusal, DNS failure, and the client timeout.
		return nil, 0, dErrors.Unavailable("License service is unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, dErrors.Unavailable("License service is unavailable", err)
	}

	if resp.StatusCode == http.StatusNotFound && on404 != nil {
		outcome = "not_found"
		return nil, resp.StatusCode, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		message := "License service error"
		code := ""
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			message = env.Error
			code = env.Code
		}
		return nil, resp.StatusCode, dErrors.Upstream(resp.StatusCode, code, message)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, resp.StatusCode, dErrors.Communication("failed to parse license service response", err)
	}
	if !env.Success {
		return nil, resp.StatusCode, dErrors.Upstream(http.StatusInternalServerError, "SERVICE_ERROR",
			fmt.Sprintf("license service reported failure for %s", operation))
	}

	outcome = "ok"
	return &env, resp.StatusCode, nil
}

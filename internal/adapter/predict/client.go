package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
)

// RequestIDHeader carries domain.PredictionRequest.ID to the prediction service.
const RequestIDHeader = "X-Request-ID"

var errMissingDemand = errors.New("response has no numeric predicted_demand")

// Client implements domain.Predictor against the prediction service HTTP API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a prediction client for the given endpoint. Requests are
// bounded only by the caller's context.
func NewClient(endpoint string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		metrics:    metrics,
		logger:     logger,
	}
}

// Endpoint returns the URL predictions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts the request values as a JSON object and returns the
// predicted_demand of a 2xx response. Errors are *domain.SetupError,
// *domain.NoResponseError or *domain.ResponseError.
func (c *Client) Predict(ctx context.Context, req domain.PredictionRequest) (float64, error) {
	payload, err := json.Marshal(req.Values)
	if err != nil {
		return 0, &domain.SetupError{Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, &domain.SetupError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set(RequestIDHeader, req.ID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, &domain.NoResponseError{
			Method:  http.MethodPost,
			URL:     c.endpoint,
			Payload: payload,
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &domain.NoResponseError{
			Method:  http.MethodPost,
			URL:     c.endpoint,
			Payload: payload,
			Err:     fmt.Errorf("read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &domain.ResponseError{StatusCode: resp.StatusCode, Body: body}
	}

	var pr response
	if err := json.Unmarshal(body, &pr); err != nil {
		return 0, &domain.ResponseError{StatusCode: resp.StatusCode, Body: body, Err: fmt.Errorf("decode response: %w", err)}
	}
	if pr.PredictedDemand == nil {
		return 0, &domain.ResponseError{StatusCode: resp.StatusCode, Body: body, Err: errMissingDemand}
	}

	c.logger.Debug("prediction received",
		"request_id", req.ID,
		"status", resp.StatusCode,
		"predicted_demand", *pr.PredictedDemand,
	)
	return *pr.PredictedDemand, nil
}

// CheckReadiness reports whether the prediction service answers on its root
// path, which the service exposes as a liveness message.
func (c *Client) CheckReadiness(ctx context.Context) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	u.Path = "/"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("prediction service unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("prediction service not ready: status %d", resp.StatusCode)
	}
	return nil
}

// Prediction service response body. Only predicted_demand is required.

type response struct {
	PredictedDemand *float64 `json:"predicted_demand"`
	Status          string   `json:"status,omitempty"`
}

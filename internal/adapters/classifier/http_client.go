package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/spam-console/internal/core"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const defaultMaxResponseBytes = 1 << 20

// HTTPClient is an implementation of the core.Classifier interface backed by
// the classification service's JSON API
type HTTPClient struct {
	endpoint         string
	healthEndpoint   string
	client           *http.Client
	maxResponseBytes int64
	logger           *zap.Logger
}

// HealthStatus is the body of the service's health route
type HealthStatus struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

type predictRequest struct {
	Message string `json:"message"`
}

type predictResponse struct {
	Prediction *string         `json:"prediction"`
	Confidence *float64        `json:"confidence"`
	Signals    *signalsPayload `json:"signals"`
}

type signalsPayload struct {
	KeywordScore *float64 `json:"keywordScore"`
	URLRisk      *float64 `json:"urlRisk"`
	CapRatio     *float64 `json:"capRatio"`
	Entropy      *float64 `json:"entropy"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// NewHTTPClient creates a new classification service client. A zero timeout
// leaves requests unbounded.
func NewHTTPClient(endpoint, healthEndpoint string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint:         endpoint,
		healthEndpoint:   healthEndpoint,
		maxResponseBytes: defaultMaxResponseBytes,
		logger:           logger,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Classify posts the message to the predict endpoint and decodes the verdict
func (c *HTTPClient) Classify(ctx context.Context, req *core.AnalysisRequest) (*core.AnalysisResult, error) {
	body, err := json.Marshal(predictRequest{Message: req.Text})
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("marshal predict request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("create predict request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	c.logger.Debug("Calling classification service",
		zap.String("request_id", req.ID),
		zap.String("endpoint", c.endpoint))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("call classification service: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes))
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("read classification response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &core.HTTPError{Status: resp.StatusCode, Detail: parseDetail(respBody)}
		c.logger.Debug("Classification service returned an error status",
			zap.String("request_id", req.ID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, httpErr
	}

	return decodePrediction(respBody)
}

// parseDetail extracts a string detail from an error body. FastAPI also emits
// list-valued details for validation errors; those are ignored.
func parseDetail(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(errResp.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func decodePrediction(body []byte) (*core.AnalysisResult, error) {
	var payload predictResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &core.MalformedResponseError{Err: err}
	}

	missing := func(field string) error {
		return &core.MalformedResponseError{Err: fmt.Errorf("response missing %s", field)}
	}
	switch {
	case payload.Prediction == nil:
		return nil, missing("prediction")
	case payload.Confidence == nil:
		return nil, missing("confidence")
	case payload.Signals == nil:
		return nil, missing("signals")
	case payload.Signals.KeywordScore == nil:
		return nil, missing("signals.keywordScore")
	case payload.Signals.URLRisk == nil:
		return nil, missing("signals.urlRisk")
	case payload.Signals.CapRatio == nil:
		return nil, missing("signals.capRatio")
	case payload.Signals.Entropy == nil:
		return nil, missing("signals.entropy")
	}

	return &core.AnalysisResult{
		Prediction: core.VerdictFromLabel(*payload.Prediction),
		Label:      *payload.Prediction,
		Confidence: *payload.Confidence,
		Signals: core.SignalSet{
			KeywordScore: *payload.Signals.KeywordScore,
			URLRisk:      *payload.Signals.URLRisk,
			CapRatio:     *payload.Signals.CapRatio,
			Entropy:      *payload.Signals.Entropy,
		},
		AnalyzedAt: time.Now(),
	}, nil
}

// Health queries the service's health route
func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthEndpoint, nil)
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("create health request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("call health endpoint: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes))
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("read health response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.HTTPError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &core.MalformedResponseError{Err: err}
	}
	if status.Status == "" {
		return nil, &core.MalformedResponseError{Err: errors.New("health response missing status")}
	}
	return &status, nil
}

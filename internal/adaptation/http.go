package adaptation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudproxy/internal/services"
)

const (
	healthPath     = "/health"
	adaptationPath = "/api/adaptation"
	apiKeyHeader   = "X-API-Key"
	maxErrorBody   = 512
)

// HTTPDoer describes the HTTP client used by HTTPClient.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient reaches the adaptation service over its REST API.
type HTTPClient struct {
	baseURL        string
	apiKey         string
	connectTimeout time.Duration
	client         HTTPDoer
}

// NewHTTPClient constructs an HTTP-backed adaptation client.
func NewHTTPClient(baseURL, apiKey string, connectTimeout time.Duration, client HTTPDoer) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:         strings.TrimSpace(apiKey),
		connectTimeout: connectTimeout,
		client:         client,
	}
}

// Connect probes the service health endpoint.
func (c *HTTPClient) Connect(ctx context.Context) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", "adaptation url not configured", nil)
	}
	probeCtx, cancel := connectContext(ctx, c.connectTimeout)
	defer cancel()

	req, err := c.newRequest(probeCtx, http.MethodGet, healthPath, nil)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", "build health request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", "probe adaptation service", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrConnectivity, "connected", "connect", fmt.Sprintf("health check returned %d", resp.StatusCode), nil)
	}
	return nil
}

// Request submits one adaptation request and decodes the verdict.
func (c *HTTPClient) Request(ctx context.Context, id uuid.UUID, originalPath, rebuiltPath string) (Result, error) {
	body, err := json.Marshal(ProcessRequest{
		FileID:       id.String(),
		OriginalPath: originalPath,
		RebuiltPath:  rebuiltPath,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode adaptation request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, adaptationPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, services.Wrap(services.ErrProcessing, "requesting", "request", "build adaptation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, services.Wrap(services.ErrProcessing, "requesting", "request", "send adaptation request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("adaptation service returned %d", resp.StatusCode)
		if text := strings.TrimSpace(string(snippet)); text != "" {
			msg += ": " + text
		}
		return Result{}, services.Wrap(services.ErrProcessing, "requesting", "request", msg, nil)
	}

	var payload ProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, services.Wrap(services.ErrProcessing, "requesting", "request", "decode adaptation response", err)
	}
	return resultFromResponse(payload), nil
}

// Close releases idle connections held by the underlying transport.
func (c *HTTPClient) Close() error {
	if closer, ok := c.client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	return req, nil
}

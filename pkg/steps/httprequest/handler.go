// Package httprequest provides the HTTP workflow step, calling an external
// URL with optional headers, body and retries.
package httprequest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lumamark/relay/pkg/models"
	"github.com/lumamark/relay/pkg/protocol"
	"github.com/lumamark/relay/pkg/template"
)

const defaultTimeout = 30 * time.Second

// RetryConfig defines retry behavior for failed requests.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

type Handler struct {
	method  string
	url     string
	headers map[string]string
	body    string
	client  *http.Client
	retry   RetryConfig
}

func NewHandler(step *models.Step) (*Handler, error) {
	url := step.ConfigString("url", "")
	if url == "" {
		return nil, fmt.Errorf("missing 'url' in HTTP step config")
	}

	headers := make(map[string]string)

	if headersConfig, exists := step.Config["headers"]; exists {
		if headersMap, ok := headersConfig.(map[string]any); ok {
			for k, v := range headersMap {
				if strVal, ok := v.(string); ok {
					headers[k] = strVal
				}
			}
		}
	}

	retry := RetryConfig{Attempts: 1}

	if retryConfig, ok := step.Config["retry"].(map[string]any); ok {
		if attempts, ok := retryConfig["attempts"].(float64); ok && attempts >= 1 {
			retry.Attempts = int(attempts)
		}

		if delay, ok := retryConfig["delay"].(float64); ok {
			retry.Delay = time.Duration(delay) * time.Second
		}
	}

	return &Handler{
		method:  strings.ToUpper(step.ConfigString("method", http.MethodGet)),
		url:     url,
		headers: headers,
		body:    step.ConfigString("body", ""),
		client:  &http.Client{Timeout: defaultTimeout},
		retry:   retry,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (protocol.StepOutcome, error) {
	logger = logger.With("step_type", "http")

	url := template.RenderWithContext(h.url, executionCtx)
	body := template.RenderWithContext(h.body, executionCtx)

	var (
		resp    *http.Response
		lastErr error
	)

	for attempt := 1; attempt <= h.retry.Attempts; attempt++ {
		if attempt > 1 {
			logger.InfoContext(ctx, "Retrying HTTP request", "attempt", attempt, "of", h.retry.Attempts)

			select {
			case <-ctx.Done():
				return protocol.StepOutcome{}, ctx.Err()
			case <-time.After(h.retry.Delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, h.method, url, strings.NewReader(body))
		if err != nil {
			return protocol.StepOutcome{}, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range h.headers {
			req.Header.Set(key, template.RenderWithContext(value, executionCtx))
		}

		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err

			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < h.retry.Attempts {
			drainBody(resp, logger)

			lastErr = fmt.Errorf("server error status %d", resp.StatusCode)
			resp = nil

			continue
		}

		break
	}

	if resp == nil {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: fmt.Sprintf("%s %s failed: %v", h.method, url, lastErr),
		}, nil
	}

	drainBody(resp, logger)

	if resp.StatusCode >= http.StatusBadRequest {
		return protocol.StepOutcome{
			Status:  models.LogStatusFailed,
			Details: fmt.Sprintf("%s %s returned %d", h.method, url, resp.StatusCode),
		}, nil
	}

	logger.InfoContext(ctx, "HTTP request completed", "method", h.method, "url", url, "status", resp.StatusCode)

	return protocol.StepOutcome{
		Status:  models.LogStatusSuccess,
		Details: fmt.Sprintf("%s %s returned %d", h.method, url, resp.StatusCode),
	}, nil
}

func drainBody(resp *http.Response, logger *slog.Logger) {
	_, _ = io.Copy(io.Discard, resp.Body)

	err := resp.Body.Close()
	if err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}

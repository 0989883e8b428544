package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultGraphBaseURL is the Meta Graph API endpoint the Meta-family
// providers talk to. Tests override it with a local server.
const DefaultGraphBaseURL = "https://graph.facebook.com/v19.0"

const graphTimeout = 15 * time.Second

type graphClient struct {
	baseURL string
	http    *http.Client
}

func newGraphClient(baseURL string) *graphClient {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}

	return &graphClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: graphTimeout},
	}
}

type graphError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// post sends a JSON payload to a Graph API path and decodes the response.
// Graph-level errors come back in the body with HTTP 200, so both transport
// and payload errors are checked.
func (g *graphClient) post(ctx context.Context, path, accessToken string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode graph payload: %w", err)
	}

	url := g.baseURL + path + "?access_token=" + accessToken

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var envelope struct {
		Error *graphError `json:"error"`
	}

	decoder := json.NewDecoder(resp.Body)

	raw := json.RawMessage{}
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}

	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		return fmt.Errorf("graph API error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("graph API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode graph response: %w", err)
		}
	}

	return nil
}

package httprequest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNewHandler_RequiresURL(t *testing.T) {
	_, err := NewHandler(&models.Step{Type: models.StepHTTP})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'url'")
}

func TestHandler_Execute_PostWithInterpolation(t *testing.T) {
	var gotBody, gotHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotHeader = r.Header.Get("X-Deal-Stage")

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	handler, err := NewHandler(&models.Step{
		Type: models.StepHTTP,
		Config: map[string]any{
			"url":     server.URL,
			"method":  "post",
			"body":    `{"deal":"{{name}}"}`,
			"headers": map[string]any{"X-Deal-Stage": "{{stage}}"},
		},
	})
	require.NoError(t, err)

	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{"name": "Acme", "stage": "WON"},
	}

	outcome, err := handler.Execute(context.Background(), execCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Details, "201")
	assert.Equal(t, `{"deal":"Acme"}`, gotBody)
	assert.Equal(t, "WON", gotHeader)
}

func TestHandler_Execute_ClientErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	handler, err := NewHandler(&models.Step{
		Type:   models.StepHTTP,
		Config: map[string]any{"url": server.URL},
	})
	require.NoError(t, err)

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Details, "404")
}

func TestHandler_Execute_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, err := NewHandler(&models.Step{
		Type: models.StepHTTP,
		Config: map[string]any{
			"url":   server.URL,
			"retry": map[string]any{"attempts": 3.0, "delay": 0.0},
		},
	})
	require.NoError(t, err)

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusSuccess, outcome.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHandler_Execute_TransportFailure(t *testing.T) {
	handler, err := NewHandler(&models.Step{
		Type:   models.StepHTTP,
		Config: map[string]any{"url": "http://127.0.0.1:1"},
	})
	require.NoError(t, err)

	outcome, err := handler.Execute(context.Background(), &models.ExecutionContext{}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, models.LogStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Details, "failed")
}

package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seed-app/internal/app"
	"seed-app/internal/config"
	"seed-app/internal/state"
)

func newTestDeps(t *testing.T, cfg config.Config) app.Deps {
	t.Helper()
	if cfg.InferenceProtocol == "" {
		cfg.InferenceProtocol = "openai"
	}
	if cfg.InferenceTimeout == 0 {
		cfg.InferenceTimeout = 5
	}
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = filepath.Join(t.TempDir(), "index.html")
		require.NoError(t, os.WriteFile(cfg.TemplatePath, []byte("<pre>{{ server_response }}</pre>"), 0o644))
	}
	deps, err := app.Assemble(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return deps
}

func postPrompt(t *testing.T, h http.Handler, path, prompt string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	if prompt != "" {
		form.Set("prompt", prompt)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func getIndex(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestIndexShowsInitialState(t *testing.T) {
	r := newRouter(newTestDeps(t, config.Config{}))

	assert.Equal(t, "<pre>"+state.Initial+"</pre>", getIndex(t, r))
}

func TestIndexFallbackWithoutTemplate(t *testing.T) {
	r := newRouter(newTestDeps(t, config.Config{TemplatePath: filepath.Join(t.TempDir(), "nope.html")}))

	body := getIndex(t, r)
	assert.Contains(t, body, "LLM Query App")
	assert.Contains(t, body, state.Initial)
}

func TestQueryEndToEnd(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"4"}}]}`))
	}))
	defer upstream.Close()

	r := newRouter(newTestDeps(t, config.Config{InferenceEndpoint: upstream.URL, InferenceModel: "llama3"}))

	w := postPrompt(t, r, "/query/", "2+2")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.EqualValues(t, 1, calls.Load())

	body := getIndex(t, r)
	assert.Contains(t, body, "Response:\n4")
	assert.Contains(t, body, "Prompt: &#39;2+2&#39;")
}

func TestQueryFlatResponseBackend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer upstream.Close()

	deps := newTestDeps(t, config.Config{InferenceEndpoint: upstream.URL, InferenceModel: "qwen2.5", InferenceProtocol: "ollama"})
	w := postPrompt(t, newRouter(deps), "/query", "hi")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Prompt: 'hi'\n\nResponse:\nok", deps.State.Get())
}

func TestQueryRedirectsOnEveryFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	schema := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer schema.Close()

	tests := []struct {
		name       string
		cfg        config.Config
		wantPrefix string
	}{
		{"config error", config.Config{}, "configuration error"},
		{"upstream error", config.Config{InferenceEndpoint: upstream.URL, InferenceModel: "m"}, "Error talking to backend: 429"},
		{"schema error", config.Config{InferenceEndpoint: schema.URL, InferenceModel: "m"}, `Error: unexpected response schema: {"id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(t, tt.cfg)
			w := postPrompt(t, newRouter(deps), "/query/", "P")

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
			assert.True(t, strings.HasPrefix(deps.State.Get(), tt.wantPrefix), deps.State.Get())
		})
	}
}

func TestQueryMissingPromptRejected(t *testing.T) {
	deps := newTestDeps(t, config.Config{})
	w := postPrompt(t, newRouter(deps), "/query/", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, state.Initial, deps.State.Get(), "orchestrator must not run")
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	r := newRouter(newTestDeps(t, config.Config{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	postPrompt(t, r, "/query/", "P")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `seed_app_submissions_total{outcome="config_error"}`)
}

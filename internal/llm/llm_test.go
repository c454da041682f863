package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

const artifactJSON = `{\"extension_js\":\"A\",\"metadata_json\":\"B\"}`

// fakeService serves one canned status/body and records request bodies.
type fakeService struct {
	status int
	body   string

	calls    atomic.Int32
	lastBody atomic.Value
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	data, _ := io.ReadAll(r.Body)
	f.lastBody.Store(string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeService) requestBody() string {
	v, _ := f.lastBody.Load().(string)
	return v
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, 8192, config.MaxTokens)
	assert.Empty(t, config.APIKey)
}

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{"", "gemini-api", false},
		{ProviderGemini, "gemini-api", false},
		{ProviderAnthropic, "anthropic-api", false},
		{"openai", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			adapter, err := NewAdapter(context.Background(), Config{Provider: tt.provider}, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, adapter.Name())
			assert.False(t, adapter.IsAvailable(), "no credential was supplied")
		})
	}
}

func TestGeminiAdapterDefaults(t *testing.T) {
	adapter, err := NewGeminiAPIAdapter(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, adapter.Model())
	assert.Equal(t, core.Provider{Label: "Gemini", CredentialEnv: "API_KEY"}, adapter.Provider())
	assert.False(t, adapter.IsAvailable())

	_, err = adapter.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGeminiAdapterComplete(t *testing.T) {
	svc := &fakeService{
		status: http.StatusOK,
		body:   `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + artifactJSON + `"}]}}]}`,
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	adapter, err := NewGeminiAPIAdapter(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	require.True(t, adapter.IsAvailable())

	text, err := adapter.Complete(context.Background(), "build me a clock")
	require.NoError(t, err)
	assert.Equal(t, `{"extension_js":"A","metadata_json":"B"}`, text)
	assert.EqualValues(t, 1, svc.calls.Load())

	body := svc.requestBody()
	assert.Contains(t, body, "build me a clock")
	assert.Contains(t, body, `"responseMimeType":"application/json"`)
	assert.Contains(t, body, `"temperature":0.5`)
}

func TestGeminiAdapterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   core.Reason
	}{
		{
			name:   "invalid key",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`,
			want:   core.ReasonInvalidCredential,
		},
		{
			name:   "quota",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"You exceeded your current quota, please check your plan and billing details.","status":"RESOURCE_EXHAUSTED"}}`,
			want:   core.ReasonQuotaExceeded,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":500,"message":"An internal error has occurred.","status":"INTERNAL"}}`,
			want:   core.ReasonNetworkOrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{status: tt.status, body: tt.body}
			srv := httptest.NewServer(svc)
			defer srv.Close()

			adapter, err := NewGeminiAPIAdapter(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
			require.NoError(t, err)

			_, err = adapter.Complete(context.Background(), "prompt")
			require.Error(t, err)

			ce := core.Classify(err, adapter.Provider(), adapter.Classifier(), core.SubstringClassifier)
			assert.Equal(t, tt.want, ce.Reason)
		})
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   core.Reason
		wantOK bool
	}{
		{"unauthorized", genai.APIError{Code: 401}, core.ReasonInvalidCredential, true},
		{"forbidden wrapped", fmt.Errorf("gemini API error: %w", genai.APIError{Code: 403}), core.ReasonInvalidCredential, true},
		{"error info reason", genai.APIError{Code: 400, Details: []map[string]any{{"reason": "API_KEY_INVALID"}}}, core.ReasonInvalidCredential, true},
		{"rate limited", genai.APIError{Code: 429}, core.ReasonQuotaExceeded, true},
		{"exhausted status", genai.APIError{Code: 400, Status: "RESOURCE_EXHAUSTED"}, core.ReasonQuotaExceeded, true},
		{"pointer form", &genai.APIError{Code: 429}, core.ReasonQuotaExceeded, true},
		{"other api error", genai.APIError{Code: 500}, "", false},
		{"not an api error", errors.New("boom"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyGeminiError(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnthropicAdapterComplete(t *testing.T) {
	svc := &fakeService{
		status: http.StatusOK,
		body: `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",` +
			`"content":[{"type":"text","text":"` + artifactJSON + `"}],` +
			`"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":20}}`,
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	adapter := NewAnthropicAPIAdapter(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	require.True(t, adapter.IsAvailable())
	assert.Equal(t, DefaultAnthropicModel, adapter.Model())

	text, err := adapter.Complete(context.Background(), "build me a clock")
	require.NoError(t, err)
	assert.Equal(t, `{"extension_js":"A","metadata_json":"B"}`, text)
	assert.Contains(t, svc.requestBody(), "build me a clock")
	assert.Contains(t, svc.requestBody(), `"temperature":0.5`)
}

func TestAnthropicAdapterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   core.Reason
	}{
		{"unauthorized", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, core.ReasonInvalidCredential},
		{"rate limited", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`, core.ReasonQuotaExceeded},
		{"bad request", http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens: too large"}}`, core.ReasonNetworkOrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{status: tt.status, body: tt.body}
			srv := httptest.NewServer(svc)
			defer srv.Close()

			adapter := NewAnthropicAPIAdapter(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
			_, err := adapter.Complete(context.Background(), "prompt")
			require.Error(t, err)

			reason, ok := classifyAnthropicError(err)
			if tt.want == core.ReasonNetworkOrUnknown {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
				assert.Equal(t, tt.want, reason)
			}
			assert.EqualValues(t, 1, svc.calls.Load(), "no retries")
		})
	}
}

func TestCredentialFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-fallback")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	assert.Equal(t, "gemini-fallback", CredentialFromEnv(ProviderGemini))
	assert.Equal(t, "anthropic-key", CredentialFromEnv(ProviderAnthropic))

	t.Setenv("API_KEY", "primary")
	assert.Equal(t, "primary", CredentialFromEnv(ProviderGemini))
}

func TestAllModels(t *testing.T) {
	models := AllModels()
	require.NotEmpty(t, models)
	assert.Equal(t, DefaultGeminiModel, models[0].ID)
	for _, m := range models {
		assert.NotEmpty(t, m.Provider, m.ID)
	}
}

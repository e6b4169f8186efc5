package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	cases := []Config{
		{BaseURL: "https://example.com", Model: "m"},              // no key
		{APIKey: "k", Model: "m"},                                 // no base url
		{BaseURL: "https://example.com", APIKey: "k"},             // no model
		{BaseURL: " ", APIKey: "k", Model: "m"},                   // blank base url
	}
	for _, cfg := range cases {
		_, err := NewClient(cfg, testLogger(t))
		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
	}
}

func TestCompleteSendsChatCompletionRequest(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"avant": {}}`}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), testLogger(t))
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"avant": {}}`, reply)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "the prompt", gotBody.Messages[0].Content)
	assert.InDelta(t, 0.7, gotBody.Temperature, 1e-9)
}

func TestCompleteMapsNonSuccessToUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit reached"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), testLogger(t))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "rate limit reached", upstream.Message)
}

func TestCompleteMissingContentIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), testLogger(t))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestCompleteMapsConnectionFailureToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c, err := NewClient(testConfig(srv.URL), testLogger(t))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}

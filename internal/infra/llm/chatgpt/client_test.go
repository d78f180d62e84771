package chatgpt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/chat"
)

func TestGenerateSendsSamplingParameters(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"reply\":\"sunny\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, "", 0)
	require.NoError(t, err)

	gen, err := client.Generate(t.Context(), "hello", chat.GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 3000})
	require.NoError(t, err)
	require.Equal(t, `{"reply":"sunny"}`, gen.Text)
	require.Equal(t, "STOP", gen.FinishReason)
	require.Equal(t, 8, gen.Usage.TotalTokens)

	require.Equal(t, DefaultModel, got.Model)
	require.Equal(t, int32(3000), got.MaxTokens)
	require.InDelta(t, 0.95, got.TopP, 0.001)
	require.Equal(t, "hello", got.Messages[0].Content)
}

func TestGenerateTruncatedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"reply\":\"sun"},"finish_reason":"length"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, "gpt-test", 0)
	require.NoError(t, err)

	gen, err := client.Generate(t.Context(), "hello", chat.GenerationConfig{})
	require.NoError(t, err)
	require.Empty(t, gen.Text)
	require.Equal(t, chat.FinishMaxTokens, gen.FinishReason)
	require.Equal(t, `{"reply":"sun`, gen.Partial)
}

func TestGenerateMapsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, "", 0)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "hello", chat.GenerationConfig{})
	modelErr := chat.AsModelError(err)
	require.Equal(t, chat.KindRateLimited, modelErr.Kind)
	require.Equal(t, "slow down", modelErr.Message)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o-mini","owned_by":"openai"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, "", 0)
	require.NoError(t, err)

	models, err := client.ListModels(t.Context())
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.Equal(t, "gpt-4o-mini", models[0].Name)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", "", "", 0)
	require.Error(t, err)
}

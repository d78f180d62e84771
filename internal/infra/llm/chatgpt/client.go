// Package chatgpt talks to OpenAI-compatible chat completion endpoints.
package chatgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/weatherchat/internal/domain/catalog"
	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gpt-4o-mini"
)

// Message mirrors the OpenAI chat message structure.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the payload sent to /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	TopP        float32   `json:"top_p,omitempty"`
	MaxTokens   int32     `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse captures a non streaming completion.
type ChatCompletionResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type modelList struct {
	Data []struct {
		ID      string `json:"id"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// Client performs HTTP requests to the completion API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a client. Empty baseURL and model fall back to OpenAI defaults.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate implements chat.Generator. TopK has no OpenAI equivalent and is ignored.
func (c *Client) Generate(ctx context.Context, prompt string, cfg chat.GenerationConfig) (chat.Generation, error) {
	req := ChatCompletionRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxOutputTokens,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return chat.Generation{}, fmt.Errorf("encode chat completion request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/chat/completions", payload)
	if err != nil {
		return chat.Generation{}, err
	}

	var out ChatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return chat.Generation{}, chat.NewStatusError(http.StatusInternalServerError, "decode chat completion", err)
	}
	return toGeneration(out), nil
}

// ListModels implements catalog.Lister.
func (c *Client) ListModels(ctx context.Context) ([]catalog.Model, error) {
	body, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	var list modelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	models := make([]catalog.Model, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, catalog.Model{
			Name:        m.ID,
			Description: m.OwnedBy,
			Methods:     []string{"chat.completions"},
		})
	}
	return models, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, chat.NewStatusError(http.StatusInternalServerError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, chat.NewStatusError(resp.StatusCode, errorMessage(body), nil)
	}
	return io.ReadAll(resp.Body)
}

func toGeneration(out ChatCompletionResponse) chat.Generation {
	var gen chat.Generation
	if out.Usage != nil {
		gen.Usage = metrics.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	if out.Error != nil {
		gen.ProviderError = out.Error.Message
	}
	if len(out.Choices) == 0 {
		return gen
	}
	choice := out.Choices[0]
	gen.FinishReason = strings.ToUpper(choice.FinishReason)
	if choice.FinishReason == "length" {
		gen.FinishReason = chat.FinishMaxTokens
		gen.Partial = choice.Message.Content
		return gen
	}
	gen.Text = choice.Message.Content
	gen.Partial = choice.Message.Content
	return gen
}

func errorMessage(body []byte) string {
	var wrapped struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	return strings.TrimSpace(string(body))
}

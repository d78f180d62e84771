// Package gemini adapts the Google Generative AI SDK to the chat Generator port.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yanqian/weatherchat/internal/domain/catalog"
	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Client calls Gemini generateContent with a single text part.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini client authenticated by API key.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate implements chat.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, cfg chat.GenerationConfig) (chat.Generation, error) {
	model := c.client.GenerativeModel(c.model)
	applyConfig(model, cfg)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return chat.Generation{}, classifyError(err)
	}
	return toGeneration(resp), nil
}

// ListModels implements catalog.Lister.
func (c *Client) ListModels(ctx context.Context) ([]catalog.Model, error) {
	it := c.client.ListModels(ctx)
	var models []catalog.Model
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classifyError(err)
		}
		models = append(models, catalog.Model{
			Name:             info.Name,
			DisplayName:      info.DisplayName,
			Description:      info.Description,
			InputTokenLimit:  info.InputTokenLimit,
			OutputTokenLimit: info.OutputTokenLimit,
			Methods:          info.SupportedGenerationMethods,
		})
	}
	return models, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func applyConfig(model *genai.GenerativeModel, cfg chat.GenerationConfig) {
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}
	if cfg.TopK > 0 {
		model.SetTopK(cfg.TopK)
	}
	if cfg.TopP > 0 {
		model.SetTopP(cfg.TopP)
	}
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
}

// toGeneration keeps the first text part as the answer and joins every text
// part for truncated responses.
func toGeneration(resp *genai.GenerateContentResponse) chat.Generation {
	var gen chat.Generation
	if resp == nil {
		return gen
	}
	if usage := resp.UsageMetadata; usage != nil {
		gen.Usage = metrics.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			gen.ProviderError = "prompt blocked: " + resp.PromptFeedback.BlockReason.String()
		}
		return gen
	}

	candidate := resp.Candidates[0]
	gen.FinishReason = finishReason(candidate.FinishReason)
	if candidate.Content == nil {
		return gen
	}
	var partial strings.Builder
	first := true
	for _, part := range candidate.Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			continue
		}
		if first {
			gen.Text = string(text)
			first = false
		}
		partial.WriteString(string(text))
	}
	gen.Partial = partial.String()
	if gen.FinishReason == chat.FinishMaxTokens {
		gen.Text = ""
	}
	return gen
}

func finishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return "STOP"
	case genai.FinishReasonMaxTokens:
		return chat.FinishMaxTokens
	case genai.FinishReasonSafety:
		return "SAFETY"
	case genai.FinishReasonRecitation:
		return "RECITATION"
	case genai.FinishReasonOther:
		return "OTHER"
	default:
		return ""
	}
}

// classifyError turns SDK failures into chat.ModelError with an HTTP-like status.
func classifyError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &chat.ModelError{Kind: chat.KindEmptyResponse, Message: blocked.Error(), Err: err}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return chat.NewStatusError(code, "", err)
		}
		if st := apiErr.GRPCStatus(); st != nil {
			return chat.NewStatusError(statusForCode(st.Code()), st.Message(), err)
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return chat.NewStatusError(gErr.Code, gErr.Message, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return chat.NewStatusError(statusForCode(st.Code()), st.Message(), err)
	}
	return chat.NewStatusError(http.StatusInternalServerError, err.Error(), err)
}

func statusForCode(code codes.Code) int {
	switch code {
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

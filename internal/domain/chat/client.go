package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/weatherchat/pkg/metrics"
)

// FinishMaxTokens is the finish reason reported when the output hit the token ceiling.
const FinishMaxTokens = "MAX_TOKENS"

// Generation is one raw provider answer.
type Generation struct {
	// Text is the primary text part of the first candidate.
	Text string
	// Partial concatenates every text part, used to salvage truncated output.
	Partial      string
	FinishReason string
	// ProviderError carries an error object embedded in a 2xx body.
	ProviderError string
	Usage         metrics.TokenUsage
}

// Generator is the LLM provider port. Transport failures should be
// reported as *ModelError built with NewStatusError.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (Generation, error)
}

// RetryPolicy bounds the attempts made by ModelClient.
type RetryPolicy struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// DefaultRetryPolicy allows three attempts in total with 2s and 4s waits.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 2, BaseBackoff: time.Second}

// Backoff returns the wait before retry n (n >= 1): 2^n * BaseBackoff.
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(1<<n) * p.BaseBackoff
}

// Result is a successful generation.
type Result struct {
	Text     string
	Attempts int
	Usage    metrics.TokenUsage
}

// attempt is the retry loop state, discarded when the loop exits.
type attempt struct {
	index   int
	lastErr *ModelError
}

// ModelClient calls a Generator with retry and exponential backoff.
type ModelClient struct {
	generator Generator
	policy    RetryPolicy
	sleep     func(ctx context.Context, d time.Duration) error
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewModelClient builds a client over generator.
func NewModelClient(generator Generator, policy RetryPolicy, recorder *metrics.Recorder, logger *slog.Logger) *ModelClient {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &ModelClient{
		generator: generator,
		policy:    policy,
		sleep:     sleepContext,
		metrics:   recorder,
		logger:    logger.With("component", "chat.model_client"),
	}
}

// Configured reports whether a provider is wired in.
func (c *ModelClient) Configured() bool {
	return c != nil && c.generator != nil
}

// Generate returns the first non-empty answer. After the retry budget is
// spent, or when ctx is cancelled during a backoff wait, it returns the last
// observed *ModelError together with the number of attempts made.
func (c *ModelClient) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (Result, error) {
	var (
		state attempt
		usage metrics.TokenUsage
	)
	for state.index = 0; state.index <= c.policy.MaxRetries; state.index++ {
		if state.index > 0 {
			delay := c.policy.Backoff(state.index)
			c.logger.Info("waiting before model retry", "attempt", state.index+1, "delay_ms", delay.Milliseconds())
			if err := c.sleep(ctx, delay); err != nil {
				c.logger.Warn("model retry aborted", "attempt", state.index+1, "error", err)
				return Result{Attempts: state.index, Usage: usage}, state.lastErr
			}
		}

		gen, err := c.generator.Generate(ctx, prompt, cfg)
		usage = usage.Add(gen.Usage)
		if err == nil {
			var text string
			text, err = classify(gen)
			if err == nil {
				c.metrics.ModelAttempt("")
				return Result{Text: text, Attempts: state.index + 1, Usage: usage}, nil
			}
		}

		state.lastErr = AsModelError(err)
		c.metrics.ModelAttempt(string(state.lastErr.Kind))
		c.logger.Warn("model attempt failed",
			"attempt", state.index+1,
			"kind", state.lastErr.Kind,
			"status", state.lastErr.StatusCode,
			"error", state.lastErr,
		)
	}
	return Result{Attempts: state.index, Usage: usage}, state.lastErr
}

// classify turns a 2xx answer into text or a content error.
func classify(gen Generation) (string, error) {
	if strings.TrimSpace(gen.Text) != "" {
		return gen.Text, nil
	}
	if gen.FinishReason == FinishMaxTokens && strings.TrimSpace(gen.Partial) != "" {
		return gen.Partial, nil
	}
	if gen.ProviderError != "" {
		return "", &ModelError{Kind: KindServerError, Message: gen.ProviderError}
	}
	if gen.FinishReason == FinishMaxTokens {
		return "", &ModelError{Kind: KindTruncatedResponse, Message: "response was cut off by the output token limit"}
	}
	msg := "no content in model response"
	if gen.FinishReason != "" {
		msg = "model finished with reason " + gen.FinishReason
	}
	return "", &ModelError{Kind: KindEmptyResponse, Message: msg}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

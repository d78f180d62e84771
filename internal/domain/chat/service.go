package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	apperrors "github.com/yanqian/weatherchat/pkg/errors"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

// Service answers weather questions.
type Service interface {
	Chat(ctx context.Context, req Request) (Reply, error)
}

type service struct {
	cfg        Config
	detector   *language.Detector
	extractor  *Extractor
	gateway    *weather.Gateway
	model      *ModelClient
	normalizer Normalizer
	tokens     *metrics.TokenCounter
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewService wires the chat pipeline.
func NewService(cfg Config, model *ModelClient, gateway *weather.Gateway, tokens *metrics.TokenCounter, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		detector:   language.NewDetector(nil),
		extractor:  NewExtractor(cfg.DefaultCity),
		gateway:    gateway,
		model:      model,
		normalizer: Normalizer{ReplyChars: cfg.FallbackReplyChars},
		tokens:     tokens,
		metrics:    recorder,
		logger:     logger.With("component", "chat.service"),
	}
}

// Chat only fails for missing input or missing provider configuration.
// Weather and model failures degrade into a localized response.
func (s *service) Chat(ctx context.Context, req Request) (Reply, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Reply{}, apperrors.Wrap(apperrors.CodeInvalidInput, "text is required", nil)
	}
	if s.cfg.MaxInputTokens > 0 && s.tokens != nil {
		if n := s.tokens.Count(text); n > s.cfg.MaxInputTokens {
			s.logger.Warn("chat text exceeds token budget", "tokens", n, "limit", s.cfg.MaxInputTokens)
			return Reply{}, apperrors.Wrap(apperrors.CodeInvalidInput, "text is too long", nil)
		}
	}
	if !s.model.Configured() {
		return Reply{}, apperrors.Wrap(apperrors.CodeConfig, "llm api key not configured", nil)
	}

	lang := s.detector.Detect(text)
	city := s.extractor.Extract(text, req.Location)
	query := weather.ParseQuery(city, lang)
	s.logger.Info("chat request resolved", "language", lang, "city", query.String(), "explicit_location", req.Location != "")

	snap := s.gateway.Fetch(ctx, query)
	prompt := BuildPrompt(text, lang, snap)

	reply := Reply{Language: lang, City: query.String(), Weather: snap}
	result, err := s.model.Generate(ctx, prompt, s.cfg.Generation)
	reply.Attempts = result.Attempts
	if err != nil {
		modelErr := AsModelError(err)
		s.metrics.Fallback(string(modelErr.Kind))
		s.logger.Warn("model unavailable, returning fallback response", "kind", modelErr.Kind, "attempts", result.Attempts, "has_weather", snap != nil)
		reply.Response = BuildFallback(modelErr, lang, snap)
		reply.Degraded = true
		return reply, nil
	}

	reply.Response = s.normalizer.Normalize(result.Text, lang)
	s.logger.Info("chat response generated", "language", lang, "attempts", result.Attempts, "prompt_tokens", result.Usage.PromptTokens, "total_tokens", result.Usage.TotalTokens)
	return reply, nil
}

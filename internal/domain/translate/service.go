package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/language"
	apperrors "github.com/yanqian/weatherchat/pkg/errors"
	"github.com/yanqian/weatherchat/pkg/llmjson"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

// Service re-renders text and chat responses in another language.
type Service interface {
	Translate(ctx context.Context, req Request) (Response, error)
	TranslateResponse(ctx context.Context, req ResponseRequest) (chat.Response, error)
}

type service struct {
	cfg        Config
	generator  chat.Generator
	cache      Cache
	group      singleflight.Group
	normalizer chat.Normalizer
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewService wires the translation domain. A nil generator means the LLM
// key is not configured; a nil cache disables memoization.
func NewService(cfg Config, generator chat.Generator, cache Cache, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		generator:  generator,
		cache:      cache,
		normalizer: chat.Normalizer{ReplyChars: chat.DefaultReplyChars},
		metrics:    recorder,
		logger:     logger.With("component", "translate.service"),
	}
}

func (s *service) Translate(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Prompt) == "" || !req.TargetLang.Valid() {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "prompt and target language are required", nil)
	}
	if s.generator == nil {
		return Response{}, apperrors.Wrap(apperrors.CodeConfig, "llm api key not configured", nil)
	}

	text, err := s.generate(ctx, req.Prompt)
	if err != nil {
		return Response{}, err
	}
	return Response{Translation: cleanTranslation(text)}, nil
}

func (s *service) TranslateResponse(ctx context.Context, req ResponseRequest) (chat.Response, error) {
	if strings.TrimSpace(req.Response.Reply) == "" || !req.TargetLang.Valid() {
		return chat.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "response.reply and target language are required", nil)
	}
	source := language.Detect(req.Response.Reply)
	if source == req.TargetLang {
		return req.Response, nil
	}
	if s.generator == nil {
		return chat.Response{}, apperrors.Wrap(apperrors.CodeConfig, "llm api key not configured", nil)
	}

	key := CacheKey(req.Response.Reply, req.TargetLang)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		prompt, err := responsePrompt(req.Response, source, req.TargetLang)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to encode response", err)
		}
		text, err := s.generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		translated := s.normalizer.Normalize(text, req.TargetLang)
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, translated); err != nil {
				s.logger.Warn("translation cache write failed", "error", err)
			}
		}
		return translated, nil
	})
	if err != nil {
		return chat.Response{}, err
	}
	s.logger.Info("response translated", "source", source, "target", req.TargetLang, "shared", shared)
	return v.(chat.Response), nil
}

func (s *service) lookup(ctx context.Context, key string) (chat.Response, bool) {
	if s.cache == nil {
		return chat.Response{}, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("translation cache read failed", "error", err)
		ok = false
	}
	s.metrics.CacheLookup(ok)
	return cached, ok
}

func (s *service) generate(ctx context.Context, prompt string) (string, error) {
	gen, err := s.generator.Generate(ctx, prompt, s.cfg.Generation)
	if err != nil {
		s.logger.Error("translation request failed", "error", err)
		return "", apperrors.Wrap(apperrors.CodeLLM, "translation failed", err)
	}
	text := strings.TrimSpace(gen.Text)
	if text == "" {
		text = strings.TrimSpace(gen.Partial)
	}
	if text == "" {
		return "", apperrors.Wrap(apperrors.CodeInternal, "no translation content received", nil)
	}
	return text, nil
}

func responsePrompt(res chat.Response, source, target language.Language) (string, error) {
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Translate the following weather assistant response from %[1]s to %[2]s.
Maintain the exact JSON structure and translate all text content including reply, bullets, outfit, safety, and actions.
Provide ONLY the translated JSON without any explanations or additional text.

Original response:
%[3]s

Translated response in %[2]s:`, source.EnglishName(), target.EnglishName(), payload), nil
}

var (
	answerPrefix  = regexp.MustCompile(`(?i)^(?:translation:|translated text:|answer:)`)
	wrappingQuote = regexp.MustCompile(`^["']|["']$`)
)

// cleanTranslation drops answer prefixes and wrapping quotes. Output that
// carries a JSON object gets the same repair chain as chat replies.
func cleanTranslation(text string) string {
	text = strings.TrimSpace(answerPrefix.ReplaceAllString(strings.TrimSpace(text), ""))
	if strings.HasPrefix(llmjson.StripFences(text), "{") {
		if repaired := llmjson.Sanitize(text); json.Valid([]byte(repaired)) {
			return repaired
		}
	}
	return wrappingQuote.ReplaceAllString(text, "")
}

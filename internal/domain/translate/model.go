package translate

import (
	"context"
	"strings"
	"unicode"

	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/language"
)

// Request is the free-form translation payload used by the UI.
type Request struct {
	Prompt     string            `json:"prompt" binding:"required"`
	TargetLang language.Language `json:"targetLang" binding:"required,supportedlang"`
}

// Response wraps the cleaned model output.
type Response struct {
	Translation string `json:"translation"`
}

// ResponseRequest asks for a whole chat response in another language.
type ResponseRequest struct {
	Response   chat.Response     `json:"response"`
	TargetLang language.Language `json:"targetLang" binding:"required,supportedlang"`
}

// Config holds sampling parameters for translation calls.
type Config struct {
	Generation chat.GenerationConfig
}

// Cache memoizes structured translations. A miss is never an error.
type Cache interface {
	Get(ctx context.Context, key string) (chat.Response, bool, error)
	Set(ctx context.Context, key string, value chat.Response) error
}

// CacheKey combines the normalized source reply with the target language.
func CacheKey(reply string, target language.Language) string {
	return normalizeSource(reply) + "|" + string(target)
}

func normalizeSource(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			if !lastSpace {
				builder.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		builder.WriteRune(r)
		lastSpace = false
	}
	return builder.String()
}

package chat

import (
	"time"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
)

// Request captures the payload accepted by the chat endpoint.
type Request struct {
	Text     string `json:"text" binding:"required"`
	Location string `json:"location"`
}

// Response is the structured reply rendered by the chat UI. Every field is
// always populated.
type Response struct {
	Reply   string   `json:"reply"`
	Bullets []string `json:"bullets"`
	Outfit  string   `json:"outfit"`
	Safety  string   `json:"safety"`
	Actions []Action `json:"actions"`
}

// Action is a suggested follow-up shown as a chip in the UI.
type Action struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// Reply is the service level result: the Response plus what the pipeline
// inferred along the way.
type Reply struct {
	Response
	Language language.Language
	City     string
	Weather  *weather.Snapshot
	// Degraded is set when the response came from the fallback responder.
	Degraded bool
	Attempts int
}

// GenerationConfig carries sampling parameters sent with each prompt.
type GenerationConfig struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

// Config wires runtime knobs for the chat domain.
type Config struct {
	Generation         GenerationConfig
	MaxRetries         int
	BaseBackoff        time.Duration
	DefaultCity        string
	MaxInputTokens     int
	FallbackReplyChars int
}

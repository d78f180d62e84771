package chat

import (
	"encoding/json"
	"strings"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/pkg/llmjson"
)

// DefaultReplyChars bounds how much raw model text is reused as a reply
// when the output cannot be parsed.
const DefaultReplyChars = 180

// Normalizer turns free-form model output into a complete Response.
type Normalizer struct {
	ReplyChars int
}

// Normalize uses a Normalizer with the default reply bound.
func Normalize(raw string, lang language.Language) Response {
	return Normalizer{ReplyChars: DefaultReplyChars}.Normalize(raw, lang)
}

// Normalize never fails. Fields that are missing or of the wrong type are
// replaced with the language defaults.
func (n Normalizer) Normalize(raw string, lang language.Language) Response {
	defaults := DefaultResponse(lang)

	fields, ok := decodeObject(raw)
	if !ok {
		if snippet := truncateRunes(strings.TrimSpace(raw), n.replyChars()); snippet != "" {
			defaults.Reply = snippet
		}
		return defaults
	}

	res := Response{
		Reply:   stringField(fields, "reply"),
		Bullets: stringListField(fields, "bullets"),
		Outfit:  stringField(fields, "outfit"),
		Safety:  stringField(fields, "safety"),
		Actions: actionsField(fields, "actions"),
	}
	if res.Reply == "" {
		res.Reply = defaults.Reply
	}
	if len(res.Bullets) == 0 {
		res.Bullets = defaults.Bullets
	}
	if res.Outfit == "" {
		res.Outfit = defaults.Outfit
	}
	if res.Safety == "" {
		res.Safety = defaults.Safety
	}
	if len(res.Actions) == 0 {
		res.Actions = defaults.Actions
	}
	return res
}

func (n Normalizer) replyChars() int {
	if n.ReplyChars <= 0 {
		return DefaultReplyChars
	}
	return n.ReplyChars
}

func decodeObject(raw string) (map[string]json.RawMessage, bool) {
	cleaned := llmjson.Sanitize(raw)
	if cleaned == "" {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var value string
	if err := json.Unmarshal(fields[key], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func stringListField(fields map[string]json.RawMessage, key string) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(fields[key], &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func actionsField(fields map[string]json.RawMessage, key string) []Action {
	var items []json.RawMessage
	if err := json.Unmarshal(fields[key], &items); err != nil {
		return nil
	}
	out := make([]Action, 0, len(items))
	for _, item := range items {
		var wire struct {
			Label  any `json:"label"`
			Detail any `json:"detail"`
		}
		if err := json.Unmarshal(item, &wire); err != nil {
			continue
		}
		label, _ := wire.Label.(string)
		detail, _ := wire.Detail.(string)
		label, detail = strings.TrimSpace(label), strings.TrimSpace(detail)
		if label == "" || detail == "" {
			continue
		}
		out = append(out, Action{Label: label, Detail: detail})
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Package llmjson recovers JSON objects from free-form model output.
package llmjson

import (
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Sanitize applies the full cleanup chain: fence stripping, object
// extraction, bracket repair and trailing comma removal. The result is
// not guaranteed to be valid JSON.
func Sanitize(raw string) string {
	cleaned := StripFences(raw)
	cleaned = ExtractObject(cleaned)
	cleaned = RepairBrackets(cleaned)
	return StripTrailingCommas(cleaned)
}

// StripFences removes leading and trailing Markdown code fences.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// drop a language tag such as json on the opening fence line
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			tag := strings.TrimSpace(text[:idx])
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		} else {
			text = strings.TrimPrefix(text, "json")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractObject returns the span from the first '{' to the last '}'.
// Text without a closing brace is returned from the first '{' onwards so
// truncated objects can still be repaired.
func ExtractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return text[start:]
	}
	return text[start : end+1]
}

// RepairBrackets closes an unterminated string and appends the closing
// brackets missing at the end of a truncated document. Brackets inside
// string literals are ignored.
func RepairBrackets(text string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == ch {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if !inString && len(stack) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(stack) + 1)
	if inString {
		if escaped {
			text = text[:len(text)-1]
		}
		b.WriteString(text)
		b.WriteByte('"')
	} else {
		b.WriteString(strings.TrimRight(strings.TrimSpace(text), ","))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// StripTrailingCommas removes commas directly preceding '}' or ']'.
func StripTrailingCommas(text string) string {
	return trailingComma.ReplaceAllString(text, "$1")
}

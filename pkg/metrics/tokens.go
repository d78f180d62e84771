package metrics

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenCounter estimates prompt sizes with a BPE tokenizer.
// When the encoding cannot be loaded it falls back to a rune based estimate.
type TokenCounter struct {
	once     sync.Once
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTokenCounter builds a lazily initialised counter.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{encoding: defaultEncoding}
}

// Count returns the estimated token count of text.
func (c *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return EstimateTokens(text)
}

// EstimateTokens approximates tokens as one per four runes, rounded up.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

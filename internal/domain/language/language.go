// Package language classifies user text into one of the supported reply languages.
package language

import (
	"regexp"
	"strings"
)

// Language is a supported reply language tag.
type Language string

const (
	Japanese Language = "ja"
	English  Language = "en"
	Hindi    Language = "hi"
)

// Default is returned when no rule matches.
const Default = English

// Supported lists every language in a stable order.
var Supported = []Language{Japanese, English, Hindi}

type localeInfo struct {
	englishName string
	displayName string
	speech      string
}

var locales = map[Language]localeInfo{
	Japanese: {englishName: "Japanese", displayName: "日本語", speech: "ja-JP"},
	English:  {englishName: "English", displayName: "English", speech: "en-US"},
	Hindi:    {englishName: "Hindi", displayName: "हिंदी", speech: "hi-IN"},
}

// Parse converts a tag into a Language.
func Parse(tag string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(tag)))
	_, ok := locales[lang]
	return lang, ok
}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	_, ok := locales[l]
	return ok
}

// EnglishName is used inside prompts ("Translate ... to Hindi").
func (l Language) EnglishName() string {
	return locales[l.orDefault()].englishName
}

// DisplayName is the native name shown in the UI.
func (l Language) DisplayName() string {
	return locales[l.orDefault()].displayName
}

// SpeechLocale returns the BCP 47 locale used for speech synthesis.
func (l Language) SpeechLocale() string {
	return locales[l.orDefault()].speech
}

func (l Language) orDefault() Language {
	if l.Valid() {
		return l
	}
	return Default
}

// Rule is one step of the detection chain.
type Rule struct {
	Name   string
	Match  func(text string) bool
	Result Language
}

var (
	japaneseScript = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
	devanagari     = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
	latinOnly      = regexp.MustCompile(`^[A-Za-z0-9\s.,!?'"()-]+$`)
)

var englishTokens = []string{
	"hello", "hi", "weather", "temperature", "today", "tomorrow", "rain", "sun", "cloud", "wind",
	"how", "what", "where", "when", "why", "the", "and", "or", "but", "is", "are", "was", "were",
	"will", "would", "could", "should",
}

// DefaultRules is the ordered chain used by Detect. First match wins.
var DefaultRules = []Rule{
	{Name: "japanese_script", Match: japaneseScript.MatchString, Result: Japanese},
	{Name: "devanagari_script", Match: devanagari.MatchString, Result: Hindi},
	{Name: "english_tokens", Match: looksEnglish, Result: English},
}

func looksEnglish(text string) bool {
	if !latinOnly.MatchString(strings.TrimSpace(text)) {
		return false
	}
	lower := strings.ToLower(text)
	for _, token := range englishTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// Detector evaluates a rule chain.
type Detector struct {
	rules    []Rule
	fallback Language
}

// NewDetector builds a detector over rules; nil rules selects DefaultRules.
func NewDetector(rules []Rule) *Detector {
	if rules == nil {
		rules = DefaultRules
	}
	return &Detector{rules: rules, fallback: Default}
}

// Detect classifies text. It never fails.
func (d *Detector) Detect(text string) Language {
	for _, rule := range d.rules {
		if rule.Match(text) {
			return rule.Result
		}
	}
	return d.fallback
}

var defaultDetector = NewDetector(nil)

// Detect classifies text with the default rule chain.
func Detect(text string) Language {
	return defaultDetector.Detect(text)
}

package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultCity is used when nothing in the text names a location.
const DefaultCity = "Tokyo"

const (
	latinSpan      = `([a-zA-Z\s,]+?)`
	latinStop      = `(?:\?|$|today|tomorrow|now)`
	japaneseSpan   = `([ぁ-んァ-ヶー一-龯]+?)`
	devanagariSpan = `([\x{0900}-\x{097F}\s]+?)`
)

// cityPatterns are tried in order; the first capture that survives cleanup wins.
var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:weather in|weather at|weather for|how is the weather in|what's the weather in|what is the weather in)\s+` + latinSpan + latinStop),
	regexp.MustCompile(`(?i)(?:temperature in|temperature at|temperature for|how hot is it in|how cold is it in)\s+` + latinSpan + latinStop),
	regexp.MustCompile(`(?i)(?:forecast for|forecast in|forecast at)\s+` + latinSpan + latinStop),
	regexp.MustCompile(`(?i)` + latinSpan + `(?:\s+weather|\s+temperature|\s+forecast)` + latinStop),
	regexp.MustCompile(japaneseSpan + `の(?:天気|気温|予報)`),
	regexp.MustCompile(japaneseSpan + `(?:は|で)(?:今日|明日)?の?(?:天気|気温|雨|晴れ|暑い|寒い)`),
	regexp.MustCompile(devanagariSpan + `(?:\s+में\s+मौसम|\s+का\s+मौसम|\s+में\s+तापमान|\s+का\s+तापमान)`),
	regexp.MustCompile(`(?:मौसम|तापमान).*?` + devanagariSpan + `(?:\s+में|$)`),
}

var (
	latinFiller      = regexp.MustCompile(`(?i)\b(?:today|tomorrow|now|please|the|about|me|tell|weather|temperature|forecast)\b`)
	japaneseFiller   = []string{"お願いします", "について", "はどう", "どう", "今日", "明日", "今"}
	devanagariFiller = map[string]struct{}{
		"कृपया": {}, "आज": {}, "कल": {}, "अभी": {}, "कैसा": {}, "कैसी": {}, "है": {}, "क्या": {}, "मौसम": {}, "तापमान": {},
	}
	validCity = regexp.MustCompile(`^[a-zA-Z\x{3040}-\x{30FF}\x{4E00}-\x{9FAF}\x{0900}-\x{097F}\s,.-]+$`)
)

// gazetteer lists well-known cities checked as a last resort, in priority order.
var gazetteer = []string{
	"Tokyo", "London", "Paris", "New York", "Delhi", "Mumbai", "Berlin", "Rome", "Madrid", "Moscow",
	"Beijing", "Shanghai", "Seoul", "Bangkok", "Singapore", "Sydney", "Melbourne", "Toronto", "Vancouver",
	"Osaka", "Kyoto", "Kolkata", "Chennai", "Bangalore",
	"東京", "大阪", "京都", "名古屋", "横浜", "福岡", "札幌", "ロンドン", "パリ", "ニューヨーク",
	"दिल्ली", "मुंबई", "कोलकाता", "चेन्नई", "बेंगलुरु", "टोक्यो", "लंदन",
}

// cityAliases maps native-script names to the Latin names the weather provider expects.
var cityAliases = map[string]string{
	"東京":       "Tokyo",
	"大阪":       "Osaka",
	"京都":       "Kyoto",
	"名古屋":      "Nagoya",
	"横浜":       "Yokohama",
	"福岡":       "Fukuoka",
	"札幌":       "Sapporo",
	"ロンドン":     "London",
	"パリ":       "Paris",
	"ニューヨーク":   "New York",
	"दिल्ली":   "Delhi",
	"मुंबई":    "Mumbai",
	"कोलकाता":  "Kolkata",
	"चेन्नई":   "Chennai",
	"बेंगलुरु": "Bangalore",
	"टोक्यो":   "Tokyo",
	"लंदन":     "London",
}

// Extractor derives a weather query from free text.
type Extractor struct {
	patterns    []*regexp.Regexp
	gazetteer   []string
	aliases     map[string]string
	defaultCity string
}

// NewExtractor builds an extractor with the built-in rule tables.
func NewExtractor(defaultCity string) *Extractor {
	if strings.TrimSpace(defaultCity) == "" {
		defaultCity = DefaultCity
	}
	return &Extractor{
		patterns:    cityPatterns,
		gazetteer:   gazetteer,
		aliases:     cityAliases,
		defaultCity: defaultCity,
	}
}

// Extract returns the provider-ready city for text. A non-empty explicit
// location short-circuits extraction.
func (e *Extractor) Extract(text, explicit string) string {
	if loc := strings.TrimSpace(explicit); loc != "" {
		return e.Normalize(loc)
	}
	return e.Normalize(e.find(text))
}

// Normalize maps native-script names onto provider names; unmapped names pass through.
func (e *Extractor) Normalize(city string) string {
	if mapped, ok := e.aliases[city]; ok {
		return mapped
	}
	return city
}

func (e *Extractor) find(text string) string {
	for _, re := range e.patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		if city := cleanCity(m[1]); acceptableCity(city) {
			return city
		}
	}
	if city, ok := e.lookupGazetteer(text); ok {
		return city
	}
	return e.defaultCity
}

func (e *Extractor) lookupGazetteer(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, city := range e.gazetteer {
		if isLatin(city) {
			if strings.Contains(lower, strings.ToLower(city)) {
				return city, true
			}
			continue
		}
		if strings.Contains(text, city) {
			return city, true
		}
	}
	return "", false
}

func cleanCity(raw string) string {
	city := latinFiller.ReplaceAllString(raw, "")
	for _, filler := range japaneseFiller {
		city = strings.ReplaceAll(city, filler, "")
	}
	fields := strings.Fields(city)
	kept := fields[:0]
	for _, f := range fields {
		if _, drop := devanagariFiller[f]; drop {
			continue
		}
		kept = append(kept, f)
	}
	city = strings.Join(kept, " ")
	city = strings.Trim(city, " ,")
	return strings.Trim(city, "のはで")
}

func acceptableCity(city string) bool {
	n := utf8.RuneCountInString(city)
	return n >= 2 && n < 50 && validCity.MatchString(city)
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > 0x7F {
			return false
		}
	}
	return true
}

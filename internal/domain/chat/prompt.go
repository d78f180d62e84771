package chat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
)

var languageInstructions = map[language.Language]string{
	language.Japanese: "日本語で回答してください。親しみやすく会話調で、天気に関する実用的なアドバイスを含めてください。",
	language.English:  "Respond in English. Be conversational and friendly, including practical weather advice and precautions.",
	language.Hindi:    "हिंदी में उत्तर दें। बातचीत के अंदाज़ में मित्रवत हों और व्यावहारिक मौसम सलाह शामिल करें।",
}

const assistantRules = `You are a conversational weather assistant who ONLY discusses weather topics. Provide helpful advice with safety precautions.

RULES:
1. ONLY weather topics - politely redirect non-weather questions back to weather discussion
2. Be conversational and engaging, not just informational
3. Always include practical precautions and safety advice
4. Give specific clothing recommendations based on weather
5. Keep responses concise but comprehensive
6. NEVER mention sports or unrelated activities unless the user asks about weather for that activity
7. Focus strictly on weather conditions, temperatures, precipitation, and related advice`

const outputSchema = `JSON format:
{
  "reply": "Conversational response with weather advice and precautions",
  "bullets": ["practical suggestion 1", "practical suggestion 2", "practical suggestion 3"],
  "outfit": "Specific clothing recommendations based on weather",
  "safety": "Safety precautions and weather warnings",
  "actions": [
    {"label": "Action name", "detail": "Practical weather-related action"},
    {"label": "Action name", "detail": "Practical weather-related action"}
  ]
}`

const pureJSONInstruction = "Return ONLY valid JSON with no markdown formatting."

// BuildPrompt assembles the single instruction string sent to the model.
func BuildPrompt(text string, lang language.Language, snap *weather.Snapshot) string {
	instruction, ok := languageInstructions[lang]
	if !ok {
		instruction = languageInstructions[language.English]
	}

	var b strings.Builder
	b.WriteString(assistantRules)
	b.WriteString("\n\nIMPORTANT: ")
	b.WriteString(instruction)
	b.WriteString("\n\n")
	b.WriteString(weatherContext(snap))
	b.WriteString("\n\nUser question: ")
	b.WriteString(text)
	b.WriteString("\n\n")
	b.WriteString(outputSchema)
	b.WriteString("\n\n")
	b.WriteString(pureJSONInstruction)
	return b.String()
}

func weatherContext(snap *weather.Snapshot) string {
	if snap == nil {
		return "Weather information could not be retrieved for the requested location."
	}
	return fmt.Sprintf(`Current weather information for %s:
- Weather: %s
- Temperature: %s°C (Feels like: %s°C)
- Humidity: %s%%
- Wind speed: %sm/s`,
		snap.Name,
		snap.Description,
		formatNumber(snap.TempC),
		formatNumber(snap.FeelsLikeC),
		formatNumber(snap.HumidityPct),
		formatNumber(snap.WindSpeedMs),
	)
}

// formatNumber renders a reading with at most one decimal place.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

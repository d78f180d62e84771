package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
)

func tokyoSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		Name:        "Tokyo",
		WeatherMain: "Clear",
		Description: "clear sky",
		TempC:       22,
		FeelsLikeC:  21.4,
		HumidityPct: 60,
		WindSpeedMs: 3.2,
	}
}

func TestBuildFallbackWithWeather(t *testing.T) {
	err := &ModelError{Kind: KindRateLimited}
	res := BuildFallback(err, language.English, tokyoSnapshot())

	require.Contains(t, res.Reply, "Tokyo")
	require.Contains(t, res.Reply, "22")
	require.Contains(t, res.Reply, "clear sky")
	require.Contains(t, res.Reply, "21.4")
	require.NotContains(t, res.Reply, "Sorry")
	require.NotEqual(t, localized[language.English].failure.rateLimit, res.Reply)

	require.Equal(t, localized[language.English].failure.rateLimitTips, res.Bullets)
	require.Contains(t, res.Outfit, "22°C")
	require.Contains(t, res.Safety, "clear sky")
	require.Len(t, res.Actions, 2)
	require.Contains(t, res.Actions[1].Detail, "Tokyo")
	requireComplete(t, res)
}

func TestBuildFallbackWithoutWeather(t *testing.T) {
	for _, lang := range language.Supported {
		c := localized[lang]

		res := BuildFallback(&ModelError{Kind: KindForbidden}, lang, nil)
		require.Equal(t, c.failure.invalidKey, res.Reply)
		require.Equal(t, c.failure.invalidKeyTips, res.Bullets)
		require.Equal(t, c.weather.seasonalOutfit, res.Outfit)
		requireComplete(t, res)

		res = BuildFallback(&ModelError{Kind: KindEmptyResponse}, lang, nil)
		require.Equal(t, c.failure.apiError, res.Reply)

		res = BuildFallback(nil, lang, nil)
		require.Equal(t, c.failure.general, res.Reply)
	}
}

func TestBuildFallbackDerivesAdviceFromConditions(t *testing.T) {
	snap := tokyoSnapshot()
	snap.WeatherMain = "Rain"
	snap.Description = "light rain"
	snap.TempC = 3

	res := BuildFallback(&ModelError{Kind: KindServerError}, language.English, snap)
	require.Contains(t, res.Outfit, "warm coat")
	require.Contains(t, res.Safety, "umbrella")

	snap.WeatherMain = "Clear"
	snap.TempC = 34
	res = BuildFallback(&ModelError{Kind: KindServerError}, language.Japanese, snap)
	require.Contains(t, res.Safety, "熱中症")
}

func TestBuildPromptSections(t *testing.T) {
	prompt := BuildPrompt("Is it hot?", language.Hindi, tokyoSnapshot())
	require.Contains(t, prompt, "ONLY weather topics")
	require.Contains(t, prompt, "हिंदी में उत्तर दें")
	require.Contains(t, prompt, "Current weather information for Tokyo")
	require.Contains(t, prompt, "Temperature: 22°C (Feels like: 21.4°C)")
	require.Contains(t, prompt, "User question: Is it hot?")
	require.Contains(t, prompt, `"actions"`)
	require.Contains(t, prompt, "no markdown")

	rules := indexOf(t, prompt, "RULES:")
	weatherInfo := indexOf(t, prompt, "Current weather information")
	question := indexOf(t, prompt, "User question:")
	schema := indexOf(t, prompt, "JSON format:")
	require.Less(t, rules, weatherInfo)
	require.Less(t, weatherInfo, question)
	require.Less(t, question, schema)

	prompt = BuildPrompt("weather?", language.Japanese, nil)
	require.Contains(t, prompt, "could not be retrieved")
	require.Contains(t, prompt, "日本語で回答してください")
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	idx := strings.Index(s, substr)
	require.GreaterOrEqual(t, idx, 0, substr)
	return idx
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ProviderGemini, cfg.LLM.Provider)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.Equal(t, int32(3000), cfg.LLM.MaxOutputTokens)
	require.Equal(t, 2, cfg.Chat.MaxRetries)
	require.Equal(t, time.Second, cfg.Chat.BaseBackoff)
	require.Equal(t, "Tokyo", cfg.Chat.DefaultCity)
	require.Equal(t, "metric", cfg.Weather.Units)
	require.InDelta(t, 0.3, cfg.Translate.Temperature, 0.001)
	require.Empty(t, cfg.LLM.APIKey)
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
llm:
  model: gemini-2.0-flash
chat:
  defaultCity: Osaka
translate:
  cache:
    capacity: 16
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENWEATHER_API_KEY", "weather-key")
	t.Setenv("HTTP_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("CHAT_BASE_BACKOFF", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	require.Equal(t, "Osaka", cfg.Chat.DefaultCity)
	require.Equal(t, 16, cfg.Translate.Cache.Capacity)
	require.Equal(t, "gemini-key", cfg.LLM.APIKey)
	require.Equal(t, "weather-key", cfg.Weather.APIKey)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	require.Equal(t, 250*time.Millisecond, cfg.Chat.BaseBackoff)
}

func TestOpenAIProviderIgnoresGeminiKey(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("LLM_PROVIDER", ProviderOpenAI)
	t.Setenv("LLM_API_KEY", "openai-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	applyEnvOverrides(cfg)
	require.Equal(t, "openai-key", cfg.LLM.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"provider":    func(c *Config) { c.LLM.Provider = "claude" },
		"model":       func(c *Config) { c.LLM.Model = " " },
		"retries":     func(c *Config) { c.Chat.MaxRetries = -1 },
		"city":        func(c *Config) { c.Chat.DefaultCity = "" },
		"reply chars": func(c *Config) { c.Chat.FallbackReplyChars = 0 },
		"redis addr":  func(c *Config) { c.Translate.Cache.Redis.Enabled = true },
		"rate limit":  func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

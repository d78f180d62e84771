package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by llm.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Chat      ChatConfig      `yaml:"chat"`
	Weather   WeatherConfig   `yaml:"weather"`
	Translate TranslateConfig `yaml:"translate"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	// ShutdownTimeout bounds the graceful drain on SIGTERM.
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
	CORSOrigins     []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig selects the model provider and its sampling parameters.
type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	APIKey          string        `yaml:"apiKey"`
	BaseURL         string        `yaml:"baseUrl"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	Temperature     float32       `yaml:"temperature"`
	TopK            int32         `yaml:"topK"`
	TopP            float32       `yaml:"topP"`
	MaxOutputTokens int32         `yaml:"maxOutputTokens"`
}

// ChatConfig tunes the chat pipeline.
type ChatConfig struct {
	MaxRetries         int           `yaml:"maxRetries"`
	BaseBackoff        time.Duration `yaml:"baseBackoff"`
	DefaultCity        string        `yaml:"defaultCity"`
	MaxInputTokens     int           `yaml:"maxInputTokens"`
	FallbackReplyChars int           `yaml:"fallbackReplyChars"`
}

// WeatherConfig contains OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Units   string        `yaml:"units"`
	Timeout time.Duration `yaml:"timeout"`
}

// TranslateConfig holds sampling parameters and cache settings for translation.
type TranslateConfig struct {
	Temperature     float32     `yaml:"temperature"`
	TopK            int32       `yaml:"topK"`
	TopP            float32     `yaml:"topP"`
	MaxOutputTokens int32       `yaml:"maxOutputTokens"`
	Cache           CacheConfig `yaml:"cache"`
}

// CacheConfig bounds the translation cache.
type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
	Redis    RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	if cfg.LLM.Provider == ProviderGemini {
		setString(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_OUTPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxOutputTokens = int32(parsed)
		}
	}

	setInt(&cfg.Chat.MaxRetries, "CHAT_MAX_RETRIES")
	setDuration(&cfg.Chat.BaseBackoff, "CHAT_BASE_BACKOFF")
	setString(&cfg.Chat.DefaultCity, "CHAT_DEFAULT_CITY")
	setInt(&cfg.Chat.MaxInputTokens, "CHAT_MAX_INPUT_TOKENS")

	setString(&cfg.Weather.APIKey, "OPENWEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "OPENWEATHER_BASE_URL")
	setDuration(&cfg.Weather.Timeout, "OPENWEATHER_TIMEOUT")

	setInt(&cfg.Translate.Cache.Capacity, "TRANSLATE_CACHE_CAPACITY")
	setDuration(&cfg.Translate.Cache.TTL, "TRANSLATE_CACHE_TTL")
	setBool(&cfg.Translate.Cache.Redis.Enabled, "TRANSLATE_REDIS_ENABLED")
	setString(&cfg.Translate.Cache.Redis.Addr, "TRANSLATE_REDIS_ADDR")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/chat",
					"/api/v1/translate",
					"/api/v1/translate/response",
				},
			},
			CORSOrigins: []string{"http://localhost:3000"},
		},
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Model:           "gemini-2.5-flash",
			Timeout:         60 * time.Second,
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 3000,
		},
		Chat: ChatConfig{
			MaxRetries:         2,
			BaseBackoff:        time.Second,
			DefaultCity:        "Tokyo",
			MaxInputTokens:     1000,
			FallbackReplyChars: 180,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Units:   "metric",
			Timeout: 10 * time.Second,
		},
		Translate: TranslateConfig{
			Temperature:     0.3,
			TopK:            20,
			TopP:            0.8,
			MaxOutputTokens: 2048,
			Cache: CacheConfig{
				Capacity: 1024,
				TTL:      24 * time.Hour,
				Redis: RedisConfig{
					Prefix: "weatherchat:translate",
				},
			},
		},
	}
}

// Validate ensures the configuration is safe to use. Provider keys are
// optional; endpoints that need them report a config error instead.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxOutputTokens <= 0 {
		return errors.New("llm.maxOutputTokens must be positive")
	}
	if c.Chat.MaxRetries < 0 {
		return errors.New("chat.maxRetries cannot be negative")
	}
	if c.Chat.BaseBackoff < 0 {
		return errors.New("chat.baseBackoff cannot be negative")
	}
	if strings.TrimSpace(c.Chat.DefaultCity) == "" {
		return errors.New("chat.defaultCity cannot be empty")
	}
	if c.Chat.MaxInputTokens < 0 {
		return errors.New("chat.maxInputTokens cannot be negative")
	}
	if c.Chat.FallbackReplyChars <= 0 {
		return errors.New("chat.fallbackReplyChars must be positive")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Translate.Cache.Capacity < 0 {
		return errors.New("translate.cache.capacity cannot be negative")
	}
	if c.Translate.Cache.TTL < 0 {
		return errors.New("translate.cache.ttl cannot be negative")
	}
	if c.Translate.Cache.Redis.Enabled && strings.TrimSpace(c.Translate.Cache.Redis.Addr) == "" {
		return errors.New("translate.cache.redis.addr cannot be empty when redis cache is enabled")
	}
	return nil
}

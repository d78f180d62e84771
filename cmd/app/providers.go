package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weatherchat/internal/domain/catalog"
	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/translate"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	"github.com/yanqian/weatherchat/internal/infra/config"
	"github.com/yanqian/weatherchat/internal/infra/llm/chatgpt"
	"github.com/yanqian/weatherchat/internal/infra/llm/gemini"
	"github.com/yanqian/weatherchat/internal/infra/translatecache"
	"github.com/yanqian/weatherchat/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/weatherchat/internal/interface/http"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

// llmBackend is satisfied by every provider adapter.
type llmBackend interface {
	chat.Generator
	catalog.Lister
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Generation: chat.GenerationConfig{
			Temperature:     cfg.LLM.Temperature,
			TopK:            cfg.LLM.TopK,
			TopP:            cfg.LLM.TopP,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		},
		MaxRetries:         cfg.Chat.MaxRetries,
		BaseBackoff:        cfg.Chat.BaseBackoff,
		DefaultCity:        cfg.Chat.DefaultCity,
		MaxInputTokens:     cfg.Chat.MaxInputTokens,
		FallbackReplyChars: cfg.Chat.FallbackReplyChars,
	}
}

func provideRetryPolicy(cfg *config.Config) chat.RetryPolicy {
	return chat.RetryPolicy{MaxRetries: cfg.Chat.MaxRetries, BaseBackoff: cfg.Chat.BaseBackoff}
}

func provideTranslateConfig(cfg *config.Config) translate.Config {
	return translate.Config{
		Generation: chat.GenerationConfig{
			Temperature:     cfg.Translate.Temperature,
			TopK:            cfg.Translate.TopK,
			TopP:            cfg.Translate.TopP,
			MaxOutputTokens: cfg.Translate.MaxOutputTokens,
		},
	}
}

func provideCatalogConfig(cfg *config.Config) catalog.Config {
	return catalog.Config{Provider: cfg.LLM.Provider, Model: cfg.LLM.Model}
}

// provideLLMBackend returns a nil backend when no key is configured so the
// endpoints that need it can answer with a config error.
func provideLLMBackend(cfg *config.Config, logger *slog.Logger) (llmBackend, func(), error) {
	key := strings.TrimSpace(cfg.LLM.APIKey)
	if key == "" {
		logger.Warn("llm api key not set, chat and translate will report config errors", "provider", cfg.LLM.Provider)
		return nil, func() {}, nil
	}
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		client, err := chatgpt.NewClient(key, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("llm provider ready", "provider", cfg.LLM.Provider, "model", client.Model())
		return client, func() {}, nil
	default:
		client, err := gemini.NewClient(context.Background(), key, cfg.LLM.Model)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("llm provider ready", "provider", cfg.LLM.Provider, "model", client.Model())
		return client, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close gemini client", "error", err)
			}
		}, nil
	}
}

func provideGenerator(backend llmBackend) chat.Generator {
	if backend == nil {
		return nil
	}
	return backend
}

func provideModelLister(backend llmBackend) catalog.Lister {
	if backend == nil {
		return nil
	}
	return backend
}

func provideModelClient(generator chat.Generator, policy chat.RetryPolicy, recorder *metrics.Recorder, logger *slog.Logger) *chat.ModelClient {
	if generator == nil {
		return nil
	}
	return chat.NewModelClient(generator, policy, recorder, logger)
}

func provideWeatherProvider(cfg *config.Config, logger *slog.Logger) (weather.Provider, error) {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		logger.Warn("openweather api key not set, chat runs without weather data")
		return nil, nil
	}
	client, err := openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Units, cfg.Weather.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideTranslateCache(cfg *config.Config, logger *slog.Logger) (translate.Cache, func(), error) {
	cacheCfg := cfg.Translate.Cache
	if cacheCfg.Redis.Enabled {
		opt, err := buildValkeyOptions(cacheCfg.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return translatecache.NewMemoryStore(cacheCfg.Capacity, cacheCfg.TTL), func() {}, nil
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return translatecache.NewMemoryStore(cacheCfg.Capacity, cacheCfg.TTL), func() {}, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("translation valkey cache enabled", "addr", cacheCfg.Redis.Addr)
			return translatecache.NewValkeyStore(client, cacheCfg.Redis.Prefix, cacheCfg.TTL), client.Close, nil
		}
	}
	return translatecache.NewMemoryStore(cacheCfg.Capacity, cacheCfg.TTL), func() {}, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideHealth(cfg *config.Config) httpiface.Health {
	return httpiface.Health{
		LLMConfigured:     strings.TrimSpace(cfg.LLM.APIKey) != "",
		WeatherConfigured: strings.TrimSpace(cfg.Weather.APIKey) != "",
	}
}

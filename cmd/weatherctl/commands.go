package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	"github.com/yanqian/weatherchat/internal/infra/config"
	"github.com/yanqian/weatherchat/internal/infra/llm/chatgpt"
	"github.com/yanqian/weatherchat/internal/infra/llm/gemini"
	"github.com/yanqian/weatherchat/internal/infra/weather/openweather"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weatherctl",
		Short:         "Weather chat developer tool",
		Long:          "weatherctl runs the language detector, location extractor, weather lookup and full chat pipeline outside the HTTP server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDetectCmd(), newLocateCmd(), newWeatherCmd(), newAskCmd())
	return root
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Detect the reply language for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := language.Detect(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", lang, lang.DisplayName(), lang.SpeechLocale())
			return nil
		},
	}
}

func newLocateCmd() *cobra.Command {
	var (
		location    string
		defaultCity string
	)
	cmd := &cobra.Command{
		Use:   "locate <text>",
		Short: "Extract the city a question is about",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			city := chat.NewExtractor(defaultCity).Extract(strings.Join(args, " "), location)
			fmt.Fprintln(cmd.OutOrStdout(), city)
			return nil
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Explicit location, overrides extraction")
	cmd.Flags().StringVar(&defaultCity, "default-city", chat.DefaultCity, "City used when nothing is found")
	return cmd
}

func newWeatherCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "weather <city | lat,lon>",
		Short: "Fetch the current weather snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			provider, err := newWeatherProvider(cfg)
			if err != nil {
				return err
			}
			target, _ := language.Parse(lang)
			svc := weather.NewService(provider, discardLogger())
			snap, err := svc.Current(cmd.Context(), weather.ParseQuery(strings.Join(args, " "), target))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				weather.Snapshot
				Emoji string `json:"emoji"`
			}{snap, weather.Emoji(snap.WeatherMain)})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Description language (ja, en, hi)")
	return cmd
}

func newAskCmd() *cobra.Command {
	var (
		location string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run the full chat pipeline and print the structured response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := discardLogger()
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			}
			svc, closeFn, err := newChatService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			reply, err := svc.Chat(cmd.Context(), chat.Request{Text: strings.Join(args, " "), Location: location})
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "language=%s city=%s attempts=%d degraded=%t\n", reply.Language, reply.City, reply.Attempts, reply.Degraded)
			}
			return writeJSON(cmd.OutOrStdout(), reply.Response)
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Explicit location, overrides extraction")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")
	return cmd
}

func newChatService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (chat.Service, func(), error) {
	closeFn := func() {}
	var generator chat.Generator
	if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
		switch cfg.LLM.Provider {
		case config.ProviderOpenAI:
			client, err := chatgpt.NewClient(key, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
			if err != nil {
				return nil, nil, err
			}
			generator = client
		default:
			client, err := gemini.NewClient(ctx, key, cfg.LLM.Model)
			if err != nil {
				return nil, nil, err
			}
			generator = client
			closeFn = func() { _ = client.Close() }
		}
	}

	var model *chat.ModelClient
	if generator != nil {
		policy := chat.RetryPolicy{MaxRetries: cfg.Chat.MaxRetries, BaseBackoff: cfg.Chat.BaseBackoff}
		model = chat.NewModelClient(generator, policy, nil, logger)
	}

	provider, err := newWeatherProvider(cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	chatCfg := chat.Config{
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
	gateway := weather.NewGateway(provider, nil, logger)
	return chat.NewService(chatCfg, model, gateway, metrics.NewTokenCounter(), nil, logger), closeFn, nil
}

// newWeatherProvider returns an untyped nil when the key is missing.
func newWeatherProvider(cfg *config.Config) (weather.Provider, error) {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		return nil, nil
	}
	client, err := openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Units, cfg.Weather.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

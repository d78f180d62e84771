package chat

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	apperrors "github.com/yanqian/weatherchat/pkg/errors"
)

const validModelJSON = `{"reply":"It's a clear 22°C in Tokyo.","bullets":["Wear sunglasses","Stay hydrated"],"outfit":"Light shirt","safety":"UV is moderate","actions":[{"label":"Walk","detail":"Great day for a stroll"}]}`

func TestServiceChatEndToEnd(t *testing.T) {
	provider := &stubWeatherProvider{snap: *tokyoSnapshot()}
	gen := &stubGenerator{results: []stubResult{{gen: Generation{Text: "```json\n" + validModelJSON + "\n```"}}}}
	svc := newTestService(t, gen, provider)

	reply, err := svc.Chat(context.Background(), Request{Text: "Tokyo weather"})
	require.NoError(t, err)
	require.False(t, reply.Degraded)
	require.Equal(t, language.English, reply.Language)
	require.Equal(t, "Tokyo", reply.City)
	require.NotNil(t, reply.Weather)
	require.Equal(t, 1, reply.Attempts)
	require.GreaterOrEqual(t, len(reply.Bullets), 1)
	requireComplete(t, reply.Response)
	require.Equal(t, "It's a clear 22°C in Tokyo.", reply.Reply)

	require.Equal(t, "Tokyo", provider.last.City)
	require.Equal(t, language.English, provider.last.Lang)
	require.Contains(t, gen.prompts[0], "Current weather information for Tokyo")
	require.Contains(t, gen.prompts[0], "User question: Tokyo weather")
}

func TestServiceChatUsesExplicitLocationAndDetectedLanguage(t *testing.T) {
	provider := &stubWeatherProvider{snap: weather.Snapshot{Name: "Delhi", Description: "haze", TempC: 31}}
	gen := &stubGenerator{results: []stubResult{{gen: Generation{Text: validModelJSON}}}}
	svc := newTestService(t, gen, provider)

	reply, err := svc.Chat(context.Background(), Request{Text: "東京の天気は？", Location: "दिल्ली"})
	require.NoError(t, err)
	require.Equal(t, language.Japanese, reply.Language)
	require.Equal(t, "Delhi", provider.last.City)
	require.Contains(t, gen.prompts[0], "日本語で回答してください")
}

func TestServiceChatDegradesAfterRetries(t *testing.T) {
	provider := &stubWeatherProvider{snap: *tokyoSnapshot()}
	gen := &stubGenerator{results: []stubResult{{err: NewStatusError(http.StatusTooManyRequests, "", nil)}}}
	svc := newTestService(t, gen, provider)

	reply, err := svc.Chat(context.Background(), Request{Text: "What's the weather in Tokyo?"})
	require.NoError(t, err)
	require.True(t, reply.Degraded)
	require.Equal(t, 3, gen.calls)
	require.Equal(t, 3, reply.Attempts)
	require.Contains(t, reply.Reply, "Tokyo")
	require.Contains(t, reply.Reply, "22")
	requireComplete(t, reply.Response)
}

func TestServiceChatWithoutWeather(t *testing.T) {
	provider := &stubWeatherProvider{err: weather.ErrNotFound}
	gen := &stubGenerator{results: []stubResult{{gen: Generation{Text: "not json at all"}}}}
	svc := newTestService(t, gen, provider)

	reply, err := svc.Chat(context.Background(), Request{Text: "weather in Atlantis?"})
	require.NoError(t, err)
	require.Nil(t, reply.Weather)
	require.Equal(t, "Atlantis", reply.City)
	require.Equal(t, "not json at all", reply.Reply)
	require.Contains(t, gen.prompts[0], "could not be retrieved")
	requireComplete(t, reply.Response)
}

func TestServiceChatInputAndConfigErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &stubGenerator{results: []stubResult{{}}}, &stubWeatherProvider{})

	_, err := svc.Chat(ctx, Request{Text: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	unconfigured := newTestService(t, nil, &stubWeatherProvider{})
	_, err = unconfigured.Chat(ctx, Request{Text: "Tokyo weather"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
}

func newTestService(t *testing.T, gen Generator, provider weather.Provider) Service {
	t.Helper()
	cfg := Config{
		Generation:         GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 3000},
		MaxRetries:         2,
		BaseBackoff:        time.Second,
		DefaultCity:        DefaultCity,
		FallbackReplyChars: DefaultReplyChars,
	}
	var client *ModelClient
	if gen != nil {
		client, _ = newTestModelClient(gen, RetryPolicy{MaxRetries: cfg.MaxRetries, BaseBackoff: cfg.BaseBackoff})
	}
	gateway := weather.NewGateway(provider, nil, newTestLogger())
	return NewService(cfg, client, gateway, nil, nil, newTestLogger())
}

type stubWeatherProvider struct {
	snap weather.Snapshot
	err  error
	last weather.Query
}

func (s *stubWeatherProvider) Current(ctx context.Context, q weather.Query) (weather.Snapshot, error) {
	s.last = q
	if s.err != nil {
		return weather.Snapshot{}, s.err
	}
	return s.snap, nil
}

package weather

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/yanqian/weatherchat/pkg/errors"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

// Provider fetches current conditions from an upstream API.
// Implementations return ErrNotFound for unknown locations.
type Provider interface {
	Current(ctx context.Context, q Query) (Snapshot, error)
}

// Service backs the weather endpoint.
type Service interface {
	Current(ctx context.Context, q Query) (Snapshot, error)
}

type service struct {
	provider Provider
	logger   *slog.Logger
}

// NewService wires the weather endpoint. A nil provider means the API key
// is not configured.
func NewService(provider Provider, logger *slog.Logger) Service {
	return &service{provider: provider, logger: logger.With("component", "weather.service")}
}

func (s *service) Current(ctx context.Context, q Query) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeConfig, "weather api key not configured", nil)
	}
	if q.Empty() {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeInvalidInput, "either q (city name) or lat&lon coordinates are required", nil)
	}
	snap, err := s.provider.Current(ctx, q)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Snapshot{}, apperrors.Wrap(apperrors.CodeNotFound, "location not found", err)
		}
		return Snapshot{}, apperrors.Wrap(apperrors.CodeWeatherUnavailable, "failed to fetch weather data", err)
	}
	return snap, nil
}

// Gateway adapts a Provider for the chat pipeline, where weather is an
// enhancement: every failure collapses to a nil snapshot.
type Gateway struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewGateway builds the chat-facing weather adapter.
func NewGateway(provider Provider, recorder *metrics.Recorder, logger *slog.Logger) *Gateway {
	return &Gateway{provider: provider, metrics: recorder, logger: logger.With("component", "weather.gateway")}
}

// Fetch issues a single provider request. It never retries.
func (g *Gateway) Fetch(ctx context.Context, q Query) *Snapshot {
	if g == nil || g.provider == nil {
		return nil
	}
	if q.Empty() {
		return nil
	}
	snap, err := g.provider.Current(ctx, q)
	if err != nil {
		result := "unavailable"
		if errors.Is(err, ErrNotFound) {
			result = "not_found"
		}
		g.metrics.WeatherLookup(result)
		g.logger.Warn("weather lookup failed", "query", q.String(), "result", result, "error", err)
		return nil
	}
	g.metrics.WeatherLookup("hit")
	g.logger.Info("weather data retrieved", "query", q.String(), "name", snap.Name)
	return &snap
}

package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
)

const tokyoPayload = `{
  "name": "Tokyo",
  "weather": [{"main": "Clouds", "description": "broken clouds"}],
  "main": {"temp": 18.4, "feels_like": 17.9, "humidity": 72},
  "wind": {"speed": 4.1}
}`

func TestClientCurrentByCity(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(tokyoPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snap, err := client.Current(context.Background(), weather.Query{City: "Tokyo", Lang: language.English})
	require.NoError(t, err)
	require.Equal(t, weather.Snapshot{
		Name:        "Tokyo",
		WeatherMain: "Clouds",
		Description: "broken clouds",
		TempC:       18.4,
		FeelsLikeC:  17.9,
		HumidityPct: 72,
		WindSpeedMs: 4.1,
	}, snap)

	query := got.URL.Query()
	require.Equal(t, "Tokyo", query.Get("q"))
	require.Equal(t, "secret", query.Get("appid"))
	require.Equal(t, "metric", query.Get("units"))
	require.Equal(t, "en", query.Get("lang"))
}

func TestClientCurrentByCoordinates(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(tokyoPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Current(context.Background(), weather.ParseQuery("35.68,139.69", ""))
	require.NoError(t, err)

	query := got.URL.Query()
	require.Equal(t, "35.68", query.Get("lat"))
	require.Equal(t, "139.69", query.Get("lon"))
	require.Empty(t, query.Get("q"))
	require.Equal(t, "ja", query.Get("lang"))
}

func TestClientCurrentErrors(t *testing.T) {
	status := http.StatusNotFound
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Current(context.Background(), weather.Query{City: "Atlantis"})
	require.True(t, errors.Is(err, weather.ErrNotFound))

	status = http.StatusUnauthorized
	_, err = client.Current(context.Background(), weather.Query{City: "Tokyo"})
	require.Error(t, err)
	require.False(t, errors.Is(err, weather.ErrNotFound))

	_, err = client.Current(context.Background(), weather.Query{})
	require.Error(t, err)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", "", 0)
	require.Error(t, err)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient("secret", baseURL, "", time.Second)
	require.NoError(t, err)
	return client
}

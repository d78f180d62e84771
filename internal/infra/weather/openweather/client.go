package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/weatherchat/internal/domain/weather"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultUnits   = "metric"
	defaultLang    = "ja"
)

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	units      string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL, units string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openweather api key cannot be empty")
	}
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if strings.TrimSpace(units) == "" {
		units = defaultUnits
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(endpoint, "/"),
		units:   units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Current implements weather.Provider.
func (c *Client) Current(ctx context.Context, q weather.Query) (weather.Snapshot, error) {
	params := url.Values{}
	params.Set("appid", c.apiKey)
	params.Set("units", c.units)
	lang := defaultLang
	if q.Lang.Valid() {
		lang = string(q.Lang)
	}
	params.Set("lang", lang)
	switch {
	case q.HasCoordinates():
		params.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(*q.Lon, 'f', -1, 64))
	case strings.TrimSpace(q.City) != "":
		params.Set("q", strings.TrimSpace(q.City))
	default:
		return weather.Snapshot{}, errors.New("either city or coordinates are required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return weather.Snapshot{}, fmt.Errorf("%w: %s", weather.ErrNotFound, q.String())
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Snapshot{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode weather response: %w", err)
	}
	return normalize(raw), nil
}

type apiResponse struct {
	Name    string       `json:"name"`
	Weather []condition  `json:"weather"`
	Main    measurements `json:"main"`
	Wind    wind         `json:"wind"`
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type measurements struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

type wind struct {
	Speed float64 `json:"speed"`
}

func normalize(raw apiResponse) weather.Snapshot {
	snap := weather.Snapshot{
		Name:        raw.Name,
		TempC:       raw.Main.Temp,
		FeelsLikeC:  raw.Main.FeelsLike,
		HumidityPct: raw.Main.Humidity,
		WindSpeedMs: raw.Wind.Speed,
	}
	if len(raw.Weather) > 0 {
		snap.WeatherMain = raw.Weather[0].Main
		snap.Description = raw.Weather[0].Description
	}
	return snap
}

var _ weather.Provider = (*Client)(nil)

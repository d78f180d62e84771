package weather

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yanqian/weatherchat/internal/domain/language"
)

// ErrNotFound is returned by providers when the location is unknown upstream.
var ErrNotFound = errors.New("location not found")

// Snapshot is a normalized weather reading for one location.
type Snapshot struct {
	Name        string  `json:"name"`
	WeatherMain string  `json:"weather_main"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	HumidityPct float64 `json:"humidity"`
	WindSpeedMs float64 `json:"wind_speed"`
}

// Query selects a location by city name or by coordinates.
type Query struct {
	City string
	Lat  *float64
	Lon  *float64
	// Lang asks the provider for descriptions in this language when set.
	Lang language.Language
}

// HasCoordinates reports whether both coordinates are set.
func (q Query) HasCoordinates() bool {
	return q.Lat != nil && q.Lon != nil
}

// Empty reports whether the query selects nothing.
func (q Query) Empty() bool {
	return !q.HasCoordinates() && strings.TrimSpace(q.City) == ""
}

func (q Query) String() string {
	if q.HasCoordinates() {
		return fmt.Sprintf("%g,%g", *q.Lat, *q.Lon)
	}
	return q.City
}

var coordinatePair = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseQuery turns free text into a Query. "35.68,139.69" is read as lat,lon;
// anything else is a city name.
func ParseQuery(text string, lang language.Language) Query {
	if m := coordinatePair.FindStringSubmatch(text); m != nil {
		lat, latErr := strconv.ParseFloat(m[1], 64)
		lon, lonErr := strconv.ParseFloat(m[2], 64)
		if latErr == nil && lonErr == nil && validLatitude(lat) && validLongitude(lon) {
			return Query{Lat: &lat, Lon: &lon, Lang: lang}
		}
	}
	return Query{City: strings.TrimSpace(text), Lang: lang}
}

func validLatitude(v float64) bool  { return v >= -90 && v <= 90 }
func validLongitude(v float64) bool { return v >= -180 && v <= 180 }

var emojis = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "🌨️",
	"Mist":         "🌫️",
	"Fog":          "🌫️",
	"Haze":         "🌫️",
	"Dust":         "💨",
	"Sand":         "💨",
	"Smoke":        "🌫️",
	"Squall":       "💨",
	"Tornado":      "🌪️",
}

// Emoji maps a provider condition group to an icon.
func Emoji(weatherMain string) string {
	if e, ok := emojis[weatherMain]; ok {
		return e
	}
	return "🌤️"
}

package chat

import (
	"fmt"
	"slices"

	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/weather"
)

// BuildFallback synthesizes the degraded response returned once the model
// could not be used. A nil err selects the general outage copy. When snap
// is present the reply, outfit and safety describe the current weather.
func BuildFallback(err *ModelError, lang language.Language, snap *weather.Snapshot) Response {
	c := copyFor(lang)
	message, tips := failureMessage(c.failure, err)

	res := Response{
		Reply:   message,
		Bullets: slices.Clone(tips),
		Outfit:  c.weather.seasonalOutfit,
		Safety:  c.safety,
		Actions: fallbackActions(c, snap),
	}
	if snap == nil {
		return res
	}

	res.Reply = fmt.Sprintf(c.weather.reply,
		snap.Name,
		snap.Description,
		formatNumber(snap.TempC),
		formatNumber(snap.FeelsLikeC),
		formatNumber(snap.HumidityPct),
	)
	res.Outfit = fmt.Sprintf(c.weather.outfit, formatNumber(snap.TempC), c.weather.outfitBands[temperatureBand(snap.TempC)])
	res.Safety = fmt.Sprintf(c.weather.safety, snap.Description, safetyTip(c.weather, snap))
	return res
}

func failureMessage(c failureCopy, err *ModelError) (string, []string) {
	if err == nil {
		return c.general, c.generalTips
	}
	switch err.Kind {
	case KindRateLimited:
		return c.rateLimit, c.rateLimitTips
	case KindUnauthorized, KindForbidden:
		return c.invalidKey, c.invalidKeyTips
	default:
		return c.apiError, c.apiErrorTips
	}
}

func temperatureBand(tempC float64) int {
	switch {
	case tempC < 5:
		return 0
	case tempC < 15:
		return 1
	case tempC < 25:
		return 2
	default:
		return 3
	}
}

func safetyTip(c weatherCopy, snap *weather.Snapshot) string {
	switch snap.WeatherMain {
	case "Rain", "Drizzle":
		return c.safetyRain
	case "Thunderstorm":
		return c.safetyStorm
	case "Snow":
		return c.safetySnow
	}
	if snap.TempC >= 30 {
		return c.safetyHeat
	}
	return c.safetyGeneral
}

func fallbackActions(c localizedCopy, snap *weather.Snapshot) []Action {
	city, description := c.weather.defaultCity, c.weather.noInformation
	if snap != nil {
		if snap.Name != "" {
			city = snap.Name
		}
		if snap.Description != "" {
			description = snap.Description
		}
	}
	return []Action{
		c.failure.settingsAction,
		{Label: c.weather.checkLabel, Detail: fmt.Sprintf(c.weather.checkDetail, city, description)},
	}
}

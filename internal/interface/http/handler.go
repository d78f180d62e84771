package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yanqian/weatherchat/internal/domain/catalog"
	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/language"
	"github.com/yanqian/weatherchat/internal/domain/translate"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	apperrors "github.com/yanqian/weatherchat/pkg/errors"
)

// Health reports which upstream providers have credentials.
type Health struct {
	LLMConfigured     bool `json:"llmConfigured"`
	WeatherConfigured bool `json:"weatherConfigured"`
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	chatSvc      chat.Service
	weatherSvc   weather.Service
	translateSvc translate.Service
	catalogSvc   catalog.Service
	health       Health
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chatSvc chat.Service, weatherSvc weather.Service, translateSvc translate.Service, catalogSvc catalog.Service, health Health, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		weatherSvc:   weatherSvc,
		translateSvc: translateSvc,
		catalogSvc:   catalogSvc,
		health:       health,
		logger:       logger.With("component", "http.handler"),
	}
}

// Chat answers a weather question with a structured response.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	reply, err := h.chatSvc.Chat(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}

	c.Header("Content-Language", string(reply.Language))
	c.Header("X-Speech-Locale", reply.Language.SpeechLocale())
	if reply.Degraded {
		c.Header("X-Response-Degraded", "true")
	}
	c.JSON(http.StatusOK, reply.Response)
}

type weatherResponse struct {
	weather.Snapshot
	Emoji string `json:"emoji"`
}

// Weather returns the current conditions for ?q= or ?lat=&lon=.
func (h *Handler) Weather(c *gin.Context) {
	query, httpErr := weatherQuery(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	snap, err := h.weatherSvc.Current(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, weatherResponse{Snapshot: snap, Emoji: weather.Emoji(snap.WeatherMain)})
}

func weatherQuery(c *gin.Context) (weather.Query, *HTTPError) {
	var query weather.Query
	if lang, ok := language.Parse(c.Query("lang")); ok {
		query.Lang = lang
	}
	if city := strings.TrimSpace(c.Query("q")); city != "" {
		query.City = city
		return query, nil
	}

	latRaw, lonRaw := c.Query("lat"), c.Query("lon")
	if latRaw == "" && lonRaw == "" {
		return query, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "q or lat/lon is required", nil)
	}
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		return query, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "lat and lon must both be numbers", errors.Join(latErr, lonErr))
	}
	query.Lat, query.Lon = &lat, &lon
	return query, nil
}

// Translate renders free text in the target language.
func (h *Handler) Translate(c *gin.Context) {
	var req translate.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	resp, err := h.translateSvc.Translate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TranslateResponse re-renders a whole chat response in the target language.
func (h *Handler) TranslateResponse(c *gin.Context) {
	var req translate.ResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	resp, err := h.translateSvc.TranslateResponse(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.Header("Content-Language", string(req.TargetLang))
	c.JSON(http.StatusOK, resp)
}

// ListModels lists the models visible to the configured key.
func (h *Handler) ListModels(c *gin.Context) {
	listing, err := h.catalogSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Healthz reports liveness plus provider configuration.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"llmConfigured":     h.health.LLMConfigured,
		"weatherConfigured": h.health.WeatherConfigured,
	})
}

func bindError(err error) *HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := lowerFirst(fe.Field())
		message := field + " is invalid"
		switch fe.Tag() {
		case "required":
			message = field + " is required"
		case supportedLangTag:
			message = field + " must be one of ja, en, hi"
		}
		return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, message, err)
	}
	return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid request body", err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

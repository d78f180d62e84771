// Package catalog lists the models visible to the configured LLM key.
package catalog

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/weatherchat/pkg/errors"
)

// Model describes one provider model.
type Model struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName,omitempty"`
	Description      string   `json:"description,omitempty"`
	InputTokenLimit  int32    `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int32    `json:"outputTokenLimit,omitempty"`
	Methods          []string `json:"supportedGenerationMethods,omitempty"`
}

// Lister is implemented by provider adapters.
type Lister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// Listing is returned by the diagnostics endpoint.
type Listing struct {
	Provider string  `json:"provider"`
	Active   string  `json:"activeModel"`
	Models   []Model `json:"models"`
}

// Service exposes the model catalog.
type Service interface {
	List(ctx context.Context) (Listing, error)
}

// Config names the provider and model used for chat.
type Config struct {
	Provider string
	Model    string
}

type service struct {
	cfg    Config
	lister Lister
	logger *slog.Logger
}

// NewService builds the catalog service. A nil lister means the key is missing.
func NewService(cfg Config, lister Lister, logger *slog.Logger) Service {
	return &service{cfg: cfg, lister: lister, logger: logger.With("component", "catalog.service")}
}

func (s *service) List(ctx context.Context) (Listing, error) {
	if s.lister == nil {
		return Listing{}, apperrors.Wrap(apperrors.CodeConfig, "llm api key not configured", nil)
	}
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		s.logger.Error("list models failed", "error", err)
		return Listing{}, apperrors.Wrap(apperrors.CodeLLM, "failed to list models", err)
	}
	if models == nil {
		models = []Model{}
	}
	return Listing{Provider: s.cfg.Provider, Active: s.cfg.Model, Models: models}, nil
}

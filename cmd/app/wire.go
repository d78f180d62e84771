//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weatherchat/internal/bootstrap"
	"github.com/yanqian/weatherchat/internal/domain/catalog"
	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/translate"
	"github.com/yanqian/weatherchat/internal/domain/weather"
	"github.com/yanqian/weatherchat/internal/infra/config"
	httpiface "github.com/yanqian/weatherchat/internal/interface/http"
	"github.com/yanqian/weatherchat/pkg/logger"
	"github.com/yanqian/weatherchat/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRecorder,
		metrics.NewTokenCounter,
		provideChatConfig,
		provideRetryPolicy,
		provideTranslateConfig,
		provideCatalogConfig,
		provideLLMBackend,
		provideGenerator,
		provideModelLister,
		provideModelClient,
		provideWeatherProvider,
		provideTranslateCache,
		provideHealth,
		weather.NewService,
		weather.NewGateway,
		chat.NewService,
		translate.NewService,
		catalog.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

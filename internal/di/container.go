// Package di provides dependency injection configuration for the tvrec server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/di/providers"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Providers are lazy: commands only pay for the services they invoke.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, flags)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// External providers
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideImageSearchClient)
	do.Provide(injector, providers.ProvideGenAIClient)

	// Business services
	do.Provide(injector, providers.ProvideRatingsService)
	do.Provide(injector, providers.ProvideCrossRefService)
	do.Provide(injector, providers.ProvideRecommendService)
	do.Provide(injector, providers.ProvideImageService)

	// Workers
	do.Provide(injector, providers.ProvideRatingsWatcher)

	// Server
	do.Provide(injector, providers.ProvideAPIServices)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// LoadRatings performs the initial ratings load from the configured source.
// A failed load leaves an empty ratings map in place and is only logged.
func LoadRatings(ctx context.Context, injector do.Injector) *service.RatingsService {
	cfg := do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	ratingsService := do.MustInvoke[*service.RatingsService](injector)

	if err := cfg.RequireRatings(); err != nil {
		log.Warn("Starting with empty ratings", "error", err)
		return ratingsService
	}

	res := ratingsService.Reload(ctx, "")
	if res.Failed() {
		log.Warn("Initial ratings load failed; starting with empty ratings",
			"source", ratingsService.DefaultSource(),
			"error", res.Failure,
		)
		return ratingsService
	}

	log.Info("Ratings loaded",
		"source", res.Value.Source,
		"count", res.Value.Ratings.Len(),
		"revision", res.Value.Revision,
	)
	return ratingsService
}

// Bootstrap loads ratings and starts the long-running components of the serve command.
func Bootstrap(ctx context.Context, injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)

	LoadRatings(ctx, injector)

	if _, err := do.Invoke[*providers.RatingsWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/genai"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/metadata/imagesearch"
	"github.com/tvrec/tvrec-server/internal/metadata/tmdb"
)

// ProvideTMDBClient provides The Movie Database client.
// Fails with an Unavailable error when no API key is configured.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := cfg.RequireTMDB(); err != nil {
		return nil, err
	}

	client, err := tmdb.New(tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      cfg.TMDB.Timeout,
	}, log.Component("tmdb"))
	if err != nil {
		return nil, err
	}

	log.Info("TMDb client initialized", "base_url", cfg.TMDB.BaseURL)
	return client, nil
}

// ProvideImageSearchClient provides the character image search client.
// A client without credentials is returned disabled rather than failing.
func ProvideImageSearchClient(i do.Injector) (*imagesearch.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.ImageSearch.Enabled() {
		log.Info("Character image search disabled: no credentials configured")
	}

	return imagesearch.NewClient(imagesearch.Config{
		APIKey:   cfg.ImageSearch.APIKey,
		EngineID: cfg.ImageSearch.EngineID,
	}, log.Component("imagesearch")), nil
}

// ProvideGenAIClient provides the generative-text client.
// Fails with an Unavailable error when no API key is configured.
func ProvideGenAIClient(i do.Injector) (*genai.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := cfg.RequireGenAI(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	}, log.Component("genai"))
	if err != nil {
		return nil, err
	}

	log.Info("Generative-text client initialized", "model", client.Model())
	return client, nil
}

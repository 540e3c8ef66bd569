package providers

import (
	"github.com/samber/do/v2"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/genai"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/metadata/imagesearch"
	"github.com/tvrec/tvrec-server/internal/metadata/tmdb"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/service"
)

// ProvideRatingsService provides the ratings service. Ratings start empty;
// callers decide when to perform the first Reload.
func ProvideRatingsService(i do.Injector) (*service.RatingsService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	loader := ratings.NewLoader(nil, cfg.Ratings.FetchTimeout, log.Component("ratings"))

	return service.NewRatingsService(
		loader,
		ratings.NewStore(nil),
		cfg.Ratings.SourceURL,
		log.Logger,
	), nil
}

// ProvideCrossRefService provides the cross-reference service.
func ProvideCrossRefService(i do.Injector) (*service.CrossRefService, error) {
	client, err := do.Invoke[*tmdb.Client](i)
	if err != nil {
		return nil, err
	}
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCrossRefService(client, log.Logger), nil
}

// ProvideRecommendService provides the recommendation service.
func ProvideRecommendService(i do.Injector) (*service.RecommendService, error) {
	client, err := do.Invoke[*genai.Client](i)
	if err != nil {
		return nil, err
	}
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendService(client, log.Logger), nil
}

// ProvideImageService provides the image lookup service. Cover lookups need
// TMDb; without it only character images are available.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	searcher := do.MustInvoke[*imagesearch.Client](i)

	var posters service.PosterProvider
	if client, err := do.Invoke[*tmdb.Client](i); err == nil {
		posters = client
	} else {
		log.Warn("Cover images disabled", "error", err)
	}

	return service.NewImageService(posters, searcher, log.Logger), nil
}

package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/service"
	"github.com/tvrec/tvrec-server/internal/watcher"
)

// RatingsWatcherHandle wraps the ratings file watcher with shutdown capability.
// Watcher is nil when watching is disabled or the source is not a local file.
type RatingsWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RatingsWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideRatingsWatcher provides a watcher that reloads ratings when the local source file changes.
func ProvideRatingsWatcher(i do.Injector) (*RatingsWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ratingsService := do.MustInvoke[*service.RatingsService](i)

	if !cfg.Ratings.Watch {
		return &RatingsWatcherHandle{}, nil
	}

	path, local := ratings.LocalPath(cfg.Ratings.SourceURL)
	if cfg.Ratings.SourceURL == "" || !local {
		log.Warn("Ratings watch ignored: source is not a local file",
			"source", cfg.Ratings.SourceURL,
		)
		return &RatingsWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Component("watcher"), path, watcher.Options{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Ratings watcher error", "error", err)
		}
	}()
	go ratingsService.Watch(ctx, w)

	log.Info("Watching ratings file", "path", w.Path())

	return &RatingsWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}

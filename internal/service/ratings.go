package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tvrec/tvrec-server/internal/domain"
	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/id"
	"github.com/tvrec/tvrec-server/internal/metrics"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/watcher"
)

// RatingsSnapshot describes the ratings currently installed.
type RatingsSnapshot struct {
	Ratings  *ratings.Map
	Source   string
	Revision string
	LoadedAt time.Time
}

// RatingsService owns the process-wide ratings snapshot.
// Readers go through the lock-free store; reloads are serialized.
type RatingsService struct {
	loader        RatingsLoader
	store         *ratings.Store
	defaultSource string
	logger        *slog.Logger

	mu       sync.Mutex
	source   string
	revision string
	loadedAt time.Time
}

// NewRatingsService creates a new ratings service. The store starts empty until Reload is called.
func NewRatingsService(loader RatingsLoader, store *ratings.Store, defaultSource string, logger *slog.Logger) *RatingsService {
	if store == nil {
		store = ratings.NewStore(nil)
	}
	return &RatingsService{
		loader:        loader,
		store:         store,
		defaultSource: strings.TrimSpace(defaultSource),
		logger:        logger,
	}
}

// Current returns the installed ratings. Never nil.
func (s *RatingsService) Current() *ratings.Map {
	return s.store.Current()
}

// DefaultSource returns the configured ratings source.
func (s *RatingsService) DefaultSource() string {
	return s.defaultSource
}

// Snapshot returns the installed ratings together with where they came from.
func (s *RatingsService) Snapshot() RatingsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RatingsSnapshot{
		Ratings:  s.store.Current(),
		Source:   s.source,
		Revision: s.revision,
		LoadedAt: s.loadedAt,
	}
}

// Source returns the source of the most recent reload.
func (s *RatingsService) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Revision returns the id of the most recent reload.
func (s *RatingsService) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Reload loads ratings from source (or the default source when empty) and installs them.
// A failed load installs an empty map and reports the failure in the result.
func (s *RatingsService) Reload(ctx context.Context, source string) domain.Result[RatingsSnapshot] {
	source = strings.TrimSpace(source)
	if source == "" || source == "None" {
		source = s.defaultSource
	}
	if source == "" {
		err := domainerrors.Validation("no ratings source given and none configured")
		s.logger.Error("ratings reload skipped", "error", err)
		return domain.Degraded(s.Snapshot(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	loaded, loadErr := s.loader.Load(ctx, source)
	if loaded == nil {
		loaded = ratings.Empty()
	}

	revision, err := id.Generate(id.PrefixRevision)
	if err != nil {
		s.logger.Warn("failed to generate ratings revision", "error", err)
	}

	s.store.Swap(loaded)
	s.source = source
	s.revision = revision
	s.loadedAt = time.Now()
	metrics.RecordRatingsReload(loaded.Len(), loadErr)

	snap := RatingsSnapshot{
		Ratings:  loaded,
		Source:   source,
		Revision: revision,
		LoadedAt: s.loadedAt,
	}

	if loadErr != nil {
		s.logger.Error("failed to load ratings",
			"source", source,
			"revision", revision,
			"error", loadErr,
		)
		failure := domainerrors.ProviderFailure("ratings", loadErr).
			WithDetails(map[string]string{"source": source})
		return domain.Degraded(snap, failure)
	}

	s.logger.Info("ratings reloaded",
		"source", source,
		"revision", revision,
		"entries", loaded.Len(),
		"duration", time.Since(start),
	)
	return domain.OK(snap)
}

// Watch reloads from the watcher's file whenever it settles after a change.
// It blocks until ctx is canceled or the watcher stops.
func (s *RatingsService) Watch(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			s.logger.Info("ratings file changed",
				"path", ev.Path,
				"event", ev.Type.String(),
			)
			if ev.Type == watcher.EventRemoved {
				continue
			}
			s.Reload(ctx, ev.Path)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			s.logger.Warn("ratings watcher error", "path", w.Path(), "error", err)
		}
	}
}

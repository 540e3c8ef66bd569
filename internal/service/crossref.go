package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/tvrec/tvrec-server/internal/domain"
	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/metadata/tmdb"
	"github.com/tvrec/tvrec-server/internal/ratings"
)

// KnownShowsQuery selects an actor either by name or by a role they played.
// ActorName wins when set; otherwise ShowTitle and Role are both required.
type KnownShowsQuery struct {
	ActorName string
	ShowTitle string
	Role      string
}

func (q KnownShowsQuery) normalized() KnownShowsQuery {
	return KnownShowsQuery{
		ActorName: strings.TrimSpace(q.ActorName),
		ShowTitle: strings.TrimSpace(q.ShowTitle),
		Role:      strings.TrimSpace(q.Role),
	}
}

// CrossRefService intersects an actor's filmography with the user's ratings.
type CrossRefService struct {
	catalog CatalogProvider
	logger  *slog.Logger
}

// NewCrossRefService creates a new cross-reference service.
func NewCrossRefService(catalog CatalogProvider, logger *slog.Logger) *CrossRefService {
	return &CrossRefService{
		catalog: catalog,
		logger:  logger,
	}
}

// FindKnownShows returns the rated titles the selected actor appears in, newest first.
// The value is never nil. Failure is set for bad input or a provider failure; a plain
// miss (unknown actor, no overlap) yields an empty list with no failure.
func (s *CrossRefService) FindKnownShows(ctx context.Context, q KnownShowsQuery, rated *ratings.Map) domain.Result[[]domain.KnownShowMatch] {
	q = q.normalized()
	empty := []domain.KnownShowMatch{}

	actor, err := s.resolve(ctx, q)
	if err != nil {
		return domain.Degraded(empty, err)
	}
	if actor == nil {
		return domain.OK(empty)
	}

	credits, err := s.filmography(ctx, actor)
	if err != nil {
		return domain.Degraded(empty, err)
	}

	var role *string
	if q.Role != "" {
		role = domain.StringPtr(q.Role)
	}

	matches := intersect(credits, rated, role)

	s.logger.Debug("cross-referenced filmography",
		"actor", actor.Name,
		"provider_id", actor.ProviderID,
		"credits", len(credits),
		"matches", len(matches),
	)

	return domain.OK(matches)
}

// resolve picks the actor for q. A nil actor with a nil error is a miss.
func (s *CrossRefService) resolve(ctx context.Context, q KnownShowsQuery) (*domain.ActorIdentity, error) {
	if q.ActorName != "" {
		actor, err := s.catalog.ResolveActor(ctx, q.ActorName)
		switch {
		case errors.Is(err, tmdb.ErrNotFound):
			s.logger.Info("actor not found", "actor", q.ActorName)
			return nil, nil
		case err != nil:
			s.logger.Error("failed to resolve actor",
				"actor", q.ActorName,
				"error", err,
			)
			return nil, domainerrors.ProviderFailure("tmdb", err)
		}
		return actor, nil
	}

	if q.ShowTitle == "" || q.Role == "" {
		err := domainerrors.ValidationWithDetails(
			"either actor_name, or both show_title and role, must be provided",
			map[string]string{
				"actor_name": "required without show_title and role",
				"show_title": "required with role",
				"role":       "required with show_title",
			},
		)
		s.logger.Error("invalid known shows query",
			"show_title", q.ShowTitle,
			"role", q.Role,
		)
		return nil, err
	}

	return s.resolveByRole(ctx, q.ShowTitle, q.Role)
}

// resolveByRole tries TV first and falls back to movies on a miss or a TV failure.
func (s *CrossRefService) resolveByRole(ctx context.Context, title, role string) (*domain.ActorIdentity, error) {
	var lastErr error

	for _, kind := range []domain.MediaKind{domain.MediaTV, domain.MediaMovie} {
		actor, err := s.catalog.FindActorByRole(ctx, title, role, kind)
		if err != nil {
			s.logger.Warn("role lookup failed",
				"title", title,
				"role", role,
				"media_type", string(kind),
				"error", err,
			)
			lastErr = err
			continue
		}
		if actor != nil {
			s.logger.Debug("resolved actor by role",
				"title", title,
				"role", role,
				"media_type", string(kind),
				"actor", actor.Name,
			)
			return actor, nil
		}
	}

	if lastErr != nil {
		return nil, domainerrors.ProviderFailure("tmdb", lastErr)
	}
	s.logger.Info("no actor found for role", "title", title, "role", role)
	return nil, nil
}

func (s *CrossRefService) filmography(ctx context.Context, actor *domain.ActorIdentity) ([]domain.FilmographyEntry, error) {
	credits, err := s.catalog.Filmography(ctx, actor.ProviderID)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to fetch filmography",
			"actor", actor.Name,
			"provider_id", actor.ProviderID,
			"error", err,
		)
		return nil, domainerrors.ProviderFailure("tmdb", err)
	}
	return credits, nil
}

// intersect keeps credits whose title is rated, then stable-sorts by year descending.
// Year is compared as a plain string, so "Unknown Year" sorts above dated entries.
func intersect(credits []domain.FilmographyEntry, rated *ratings.Map, role *string) []domain.KnownShowMatch {
	matches := []domain.KnownShowMatch{}
	for _, c := range credits {
		if !rated.Has(c.Title) {
			continue
		}
		matches = append(matches, domain.KnownShowMatch{
			Title: c.Title,
			Role:  role,
			Year:  c.Year,
		})
	}

	slices.SortStableFunc(matches, func(a, b domain.KnownShowMatch) int {
		return strings.Compare(b.Year, a.Year)
	})
	return matches
}

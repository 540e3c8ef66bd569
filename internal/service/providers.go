// Package service holds the core operations: ratings reloads, actor cross-referencing,
// recommendations and the cosmetic image lookups built on top of them.
package service

import (
	"context"

	"github.com/tvrec/tvrec-server/internal/domain"
	"github.com/tvrec/tvrec-server/internal/ratings"
)

// CatalogProvider resolves actors and their credits. Implemented by *tmdb.Client.
type CatalogProvider interface {
	ResolveActor(ctx context.Context, name string) (*domain.ActorIdentity, error)
	Filmography(ctx context.Context, actorID int) ([]domain.FilmographyEntry, error)
	FindActorByRole(ctx context.Context, title, role string, kind domain.MediaKind) (*domain.ActorIdentity, error)
}

// PosterProvider looks up cover art for a show title.
type PosterProvider interface {
	PosterURL(ctx context.Context, title string) (string, error)
}

// ImageSearcher returns the first image result for a free-text query.
type ImageSearcher interface {
	Enabled() bool
	FirstImage(ctx context.Context, query string) (string, error)
}

// TextGenerator produces a completion for a system instruction and a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// RatingsLoader fetches and parses a ratings source.
type RatingsLoader interface {
	Load(ctx context.Context, source string) (*ratings.Map, error)
}

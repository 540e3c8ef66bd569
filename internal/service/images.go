package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// coverLookupConcurrency bounds parallel poster lookups for one request.
const coverLookupConcurrency = 4

// TitleImage pairs a title with its cover URL ("" when none was found).
type TitleImage struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// ImageService finds cover and character images. Lookups are cosmetic:
// failures are logged and produce an empty URL.
type ImageService struct {
	posters  PosterProvider
	searcher ImageSearcher
	logger   *slog.Logger
}

// NewImageService creates a new image service. searcher may be nil.
func NewImageService(posters PosterProvider, searcher ImageSearcher, logger *slog.Logger) *ImageService {
	return &ImageService{
		posters:  posters,
		searcher: searcher,
		logger:   logger,
	}
}

// CoverImage returns the poster URL for a show title.
func (s *ImageService) CoverImage(ctx context.Context, title string) string {
	if s.posters == nil || strings.TrimSpace(title) == "" {
		return ""
	}
	url, err := s.posters.PosterURL(ctx, title)
	if err != nil {
		s.logger.Warn("cover lookup failed",
			"title", title,
			"error", err,
		)
		return ""
	}
	return url
}

// CharacterImage returns the first image search hit for a character in a show.
func (s *ImageService) CharacterImage(ctx context.Context, character, show string) string {
	if s.searcher == nil || !s.searcher.Enabled() {
		return ""
	}
	query := strings.TrimSpace(strings.TrimSpace(character) + " " + strings.TrimSpace(show))
	if query == "" {
		return ""
	}
	url, err := s.searcher.FirstImage(ctx, query)
	if err != nil {
		s.logger.Warn("character image lookup failed",
			"character", character,
			"show", show,
			"error", err,
		)
		return ""
	}
	return url
}

// CoverImages looks up covers for titles concurrently, preserving input order.
func (s *ImageService) CoverImages(ctx context.Context, titles []string) []TitleImage {
	out := make([]TitleImage, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(coverLookupConcurrency)
	for i, title := range titles {
		out[i].Title = title
		g.Go(func() error {
			out[i].Image = s.CoverImage(gctx, title)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tvrec/tvrec-server/internal/domain"
	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/metrics"
	"github.com/tvrec/tvrec-server/internal/ratings"
)

// RecommendationCount is how many titles the model is asked for.
const RecommendationCount = 20

const recommendSystemInstruction = `You are a helpful assistant that recommends new TV shows based on the user's preferences.
Only list the show titles.
Do not recommend shows that are already in the user's list.
Only list the show titles without a - or anything preceding them, and separate them by line breaks.
Recommend exactly 20 shows.`

const recommendPromptHeader = "Here is a list of TV shows the user has watched and rated (out of 100), where 100 is the best:"

// RecommendService asks a generative model for shows similar to the user's ratings.
type RecommendService struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewRecommendService creates a new recommendation service.
func NewRecommendService(generator TextGenerator, logger *slog.Logger) *RecommendService {
	return &RecommendService{
		generator: generator,
		logger:    logger,
	}
}

// RecommendShows returns suggested titles in the order the model produced them,
// excluding anything already rated. The value is never nil; on failure it is
// empty and Failure is set.
func (s *RecommendService) RecommendShows(ctx context.Context, rated *ratings.Map) domain.Result[[]string] {
	prompt := BuildRecommendPrompt(rated)

	start := time.Now()
	text, err := s.generator.Generate(ctx, recommendSystemInstruction, prompt)
	if err != nil {
		s.logger.Error("failed to generate recommendations",
			"rated", rated.Len(),
			"error", err,
		)
		metrics.RecordRecommendation(0, err)
		return domain.Degraded([]string{}, domainerrors.ProviderFailure("genai", err))
	}

	titles := ParseRecommendations(text, rated)
	metrics.RecordRecommendation(len(titles), nil)

	s.logger.Debug("generated recommendations",
		"rated", rated.Len(),
		"titles", len(titles),
		"duration", time.Since(start),
	)

	return domain.OK(titles)
}

// BuildRecommendPrompt renders the ratings, in source order, as "title: score/100" lines.
func BuildRecommendPrompt(rated *ratings.Map) string {
	var b strings.Builder
	b.WriteString(recommendPromptHeader)
	b.WriteByte('\n')
	for _, e := range rated.Entries() {
		b.WriteString(e.Title)
		b.WriteString(": ")
		b.WriteString(ratings.FormatScore(e.Score))
		b.WriteString("/100\n")
	}
	fmt.Fprintf(&b, "\nBased on these preferences, recommend %d similar TV shows they might enjoy.", RecommendationCount)
	return b.String()
}

// ParseRecommendations splits model output into titles. Lines are trimmed, blanks
// dropped, and exact matches against rated titles removed. Duplicates are kept.
func ParseRecommendations(text string, rated *ratings.Map) []string {
	titles := []string{}
	for line := range strings.SplitSeq(text, "\n") {
		title := strings.TrimSpace(line)
		if title == "" || rated.Has(title) {
			continue
		}
		titles = append(titles, title)
	}
	return titles
}

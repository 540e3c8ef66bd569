package api

import (
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/service"
)

// Services groups the business services used by the API server.
// CrossRef and Recommend are nil when their provider is not configured;
// the matching endpoints then answer 503.
type Services struct {
	Ratings   *service.RatingsService
	CrossRef  *service.CrossRefService
	Recommend *service.RecommendService
	Images    *service.ImageService
}

// currentRatings returns the installed ratings, or an empty set when no ratings service is wired.
func (s *Server) currentRatings() *ratings.Map {
	if s.services.Ratings == nil {
		return ratings.Empty()
	}
	return s.services.Ratings.Current()
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/service"
)

func (s *Server) registerRecommendRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommendShows",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommend",
		Summary:     "Recommend shows",
		Description: "Asks the generative-text service for shows similar to the loaded ratings. Each title comes with a cover image when one is found.",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommend)
}

// RecommendOutput contains recommended titles with cover images.
type RecommendOutput struct {
	Degraded string `header:"X-Degraded" doc:"Set when results are empty because a provider failed"`
	Body     []service.TitleImage
}

func (s *Server) handleRecommend(ctx context.Context, _ *struct{}) (*RecommendOutput, error) {
	if s.services.Recommend == nil {
		return nil, toHumaError(domainerrors.Unavailable("generative-text provider is not configured"))
	}

	res := s.services.Recommend.RecommendShows(ctx, s.currentRatings())

	out := &RecommendOutput{}
	if res.Failed() {
		out.Degraded = degradedHeader
	}

	if s.services.Images != nil {
		out.Body = s.services.Images.CoverImages(ctx, res.Value)
	} else {
		out.Body = make([]service.TitleImage, len(res.Value))
		for i, title := range res.Value {
			out.Body[i] = service.TitleImage{Title: title}
		}
	}
	return out, nil
}

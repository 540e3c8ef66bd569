package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCharacterImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/character",
		Summary:     "Find a character image",
		Description: "Returns the first image search hit for a character in a show. The url is empty when image search is disabled or finds nothing.",
		Tags:        []string{"Images"},
	}, s.handleCharacterImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCoverImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/cover",
		Summary:     "Find a show cover",
		Tags:        []string{"Images"},
	}, s.handleCoverImage)
}

// CharacterImageInput contains parameters for a character image lookup.
type CharacterImageInput struct {
	Character string `query:"character" required:"true" minLength:"1" maxLength:"200" doc:"Character name"`
	Show      string `query:"show" required:"true" minLength:"1" maxLength:"300" doc:"Show title"`
}

// CoverImageInput contains parameters for a cover lookup.
type CoverImageInput struct {
	Title string `query:"title" required:"true" minLength:"1" maxLength:"300" doc:"Show title"`
}

// ImageResponse carries an image URL.
type ImageResponse struct {
	URL string `json:"url" doc:"Image URL, empty when none was found"`
}

// ImageOutput wraps the image response for Huma.
type ImageOutput struct {
	Body ImageResponse
}

func (s *Server) handleCharacterImage(ctx context.Context, input *CharacterImageInput) (*ImageOutput, error) {
	if s.services.Images == nil {
		return nil, toHumaError(domainerrors.Unavailable("image lookup is not configured"))
	}
	url := s.services.Images.CharacterImage(ctx, input.Character, input.Show)
	return &ImageOutput{Body: ImageResponse{URL: url}}, nil
}

func (s *Server) handleCoverImage(ctx context.Context, input *CoverImageInput) (*ImageOutput, error) {
	if s.services.Images == nil {
		return nil, toHumaError(domainerrors.Unavailable("image lookup is not configured"))
	}
	url := s.services.Images.CoverImage(ctx, input.Title)
	return &ImageOutput{Body: ImageResponse{URL: url}}, nil
}

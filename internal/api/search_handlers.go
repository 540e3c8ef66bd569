package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tvrec/tvrec-server/internal/domain"
	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/service"
)

// degradedHeader is set when a response is empty because an upstream provider failed.
const degradedHeader = "provider_failure"

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchKnownShows",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Find rated shows an actor appears in",
		Description: "Select the actor by name, or by a show title and the role they played in it. Results are newest first.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchRequest selects an actor by name or by role.
type SearchRequest struct {
	ActorName string `json:"actor_name,omitempty" maxLength:"200" doc:"Actor name; takes precedence over show_title and role"`
	ShowTitle string `json:"show_title,omitempty" maxLength:"300" doc:"Show or movie title the role appears in"`
	Role      string `json:"role,omitempty" maxLength:"200" doc:"Character name, matched case-insensitively"`
}

// SearchInput contains parameters for the known shows search.
type SearchInput struct {
	Body SearchRequest
}

// SearchOutput contains the matched shows.
type SearchOutput struct {
	Degraded string `header:"X-Degraded" doc:"Set when results are empty because a provider failed"`
	Body     []domain.KnownShowMatch
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.CrossRef == nil {
		return nil, toHumaError(domainerrors.Unavailable("catalog provider is not configured"))
	}

	res := s.services.CrossRef.FindKnownShows(ctx, service.KnownShowsQuery{
		ActorName: input.Body.ActorName,
		ShowTitle: input.Body.ShowTitle,
		Role:      input.Body.Role,
	}, s.currentRatings())

	out := &SearchOutput{Body: res.Value}
	if res.Failed() {
		if domainerrors.Is(res.Failure, domainerrors.ErrValidation) {
			return nil, toHumaError(res.Failure)
		}
		out.Degraded = degradedHeader
	}
	return out, nil
}

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/ratings"
)

func (s *Server) registerRatingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "reloadRatings",
		Method:      http.MethodPost,
		Path:        "/api/v1/reload",
		Summary:     "Reload ratings",
		Description: "Reloads ratings from csv_url, which must be an http(s) URL, or from the configured default source when it is omitted.",
		Tags:        []string{"Ratings"},
	}, s.handleReload)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRatings",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings",
		Summary:     "List loaded ratings",
		Tags:        []string{"Ratings"},
	}, s.handleListRatings)
}

// ReloadRequest optionally names a new ratings source.
type ReloadRequest struct {
	CSVURL string `json:"csv_url,omitempty" maxLength:"2048" doc:"http(s) URL of a ratings CSV; empty or None reloads the default source"`
}

// ReloadInput contains parameters for a ratings reload.
type ReloadInput struct {
	Body *ReloadRequest `required:"false"`
}

// ReloadResponse describes the installed ratings.
type ReloadResponse struct {
	Message  string `json:"message" doc:"Human-readable summary"`
	Count    int    `json:"count" doc:"Number of ratings loaded"`
	Revision string `json:"revision" doc:"Identifier of this reload"`
	Source   string `json:"source" doc:"Source the ratings were loaded from"`
}

// ReloadOutput wraps the reload response for Huma.
type ReloadOutput struct {
	Body ReloadResponse
}

func (s *Server) handleReload(ctx context.Context, input *ReloadInput) (*ReloadOutput, error) {
	if s.services.Ratings == nil {
		return nil, toHumaError(domainerrors.Unavailable("ratings service is not configured"))
	}

	var source string
	if input.Body != nil {
		source = strings.TrimSpace(input.Body.CSVURL)
	}
	// Local paths are reserved for the configured default source.
	if source != "" && source != "None" {
		if err := s.validator.Var("csv_url", source, "http_url"); err != nil {
			return nil, toHumaError(err)
		}
	}

	res := s.services.Ratings.Reload(ctx, source)
	if res.Failed() {
		return nil, toHumaError(res.Failure)
	}

	message := "Reloaded default ratings"
	if res.Value.Source != s.services.Ratings.DefaultSource() {
		message = "Reloaded ratings from " + res.Value.Source
	}

	return &ReloadOutput{
		Body: ReloadResponse{
			Message:  message,
			Count:    res.Value.Ratings.Len(),
			Revision: res.Value.Revision,
			Source:   res.Value.Source,
		},
	}, nil
}

// RatingsResponse lists the installed ratings in source order.
type RatingsResponse struct {
	Revision string          `json:"revision,omitempty" doc:"Identifier of the last reload"`
	Source   string          `json:"source,omitempty" doc:"Source of the last reload"`
	LoadedAt *time.Time      `json:"loaded_at,omitempty" doc:"When the last reload finished"`
	Count    int             `json:"count" doc:"Number of ratings"`
	Entries  []ratings.Entry `json:"entries" doc:"Rated titles in source order"`
}

// RatingsOutput wraps the ratings response for Huma.
type RatingsOutput struct {
	Body RatingsResponse
}

func (s *Server) handleListRatings(_ context.Context, _ *struct{}) (*RatingsOutput, error) {
	if s.services.Ratings == nil {
		return nil, toHumaError(domainerrors.Unavailable("ratings service is not configured"))
	}

	snap := s.services.Ratings.Snapshot()
	resp := RatingsResponse{
		Revision: snap.Revision,
		Source:   snap.Source,
		Count:    snap.Ratings.Len(),
		Entries:  snap.Ratings.Entries(),
	}
	if !snap.LoadedAt.IsZero() {
		resp.LoadedAt = &snap.LoadedAt
	}
	return &RatingsOutput{Body: resp}, nil
}

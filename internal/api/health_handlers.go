package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or degraded"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"ratings":      s.checkRatings(),
		"catalog":      configured(s.services.CrossRef != nil, "catalog provider not configured"),
		"recommender":  configured(s.services.Recommend != nil, "generative-text provider not configured"),
		"image_lookup": configured(s.services.Images != nil, "image lookup not configured"),
	}

	overall := "healthy"
	for _, c := range components {
		if c.Status != "healthy" {
			overall = "degraded"
			break
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkRatings reports how many ratings are loaded. An empty set is degraded, not fatal.
func (s *Server) checkRatings() ComponentHealth {
	if s.services.Ratings == nil {
		return ComponentHealth{Status: "degraded", Message: "ratings service not configured"}
	}

	n := s.services.Ratings.Current().Len()
	if n == 0 {
		return ComponentHealth{Status: "degraded", Message: "no ratings loaded"}
	}
	return ComponentHealth{Status: "healthy", Message: formatCount(n, "rating")}
}

func configured(ok bool, message string) ComponentHealth {
	if !ok {
		return ComponentHealth{Status: "degraded", Message: message}
	}
	return ComponentHealth{Status: "healthy"}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

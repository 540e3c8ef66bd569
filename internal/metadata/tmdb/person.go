package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tvrec/tvrec-server/internal/domain"
)

// ResolveActor finds the person matching name. The first search result wins:
// TMDb's relevance order is used as-is. No results yields ErrNotFound.
func (c *Client) ResolveActor(ctx context.Context, name string) (*domain.ActorIdentity, error) {
	const op = "resolveActor"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, wrapError(op, name, ErrBadRequest)
	}

	query := url.Values{}
	query.Set("query", name)
	query.Set("include_adult", "false")

	body, err := c.doRequest(ctx, op, "/search/person", query)
	if err != nil {
		return nil, wrapError(op, name, err)
	}

	var resp rawPersonSearch
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError(op, name, fmt.Errorf("parse response: %w", err))
	}
	if len(resp.Results) == 0 {
		return nil, wrapError(op, name, ErrNotFound)
	}

	top := resp.Results[0]
	return &domain.ActorIdentity{Name: top.Name, ProviderID: top.ID}, nil
}

// Filmography returns the actor's combined movie and TV cast credits in
// provider order.
func (c *Client) Filmography(ctx context.Context, actorID int) ([]domain.FilmographyEntry, error) {
	const op = "filmography"

	if actorID <= 0 {
		return nil, wrapError(op, idQuery(actorID), ErrBadRequest)
	}

	body, err := c.doRequest(ctx, op, "/person/"+idQuery(actorID)+"/combined_credits", nil)
	if err != nil {
		return nil, wrapError(op, idQuery(actorID), err)
	}

	var resp rawCombinedCredits
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError(op, idQuery(actorID), fmt.Errorf("parse response: %w", err))
	}

	entries := make([]domain.FilmographyEntry, 0, len(resp.Cast))
	for _, credit := range resp.Cast {
		entries = append(entries, normalizeCredit(credit))
	}
	return entries, nil
}

// normalizeCredit is the single place provider fields become a FilmographyEntry.
//
//	title: title, then name, then domain.UnknownTitle
//	year:  release_date, then first_air_date, then domain.UnknownYear
//	role:  character, nil when empty
func normalizeCredit(c rawCredit) domain.FilmographyEntry {
	title := firstNonEmpty(c.Title, c.Name, domain.UnknownTitle)
	year := firstNonEmpty(c.ReleaseDate, c.FirstAirDate, domain.UnknownYear)

	kind := domain.MediaKind(c.MediaType)
	if !kind.Valid() {
		kind = ""
	}

	return domain.FilmographyEntry{
		Title:     title,
		Role:      domain.StringPtr(c.Character),
		Year:      year,
		MediaType: kind,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

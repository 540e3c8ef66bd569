package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/text/cases"

	"github.com/tvrec/tvrec-server/internal/domain"
)

// FindActorByRole finds who played role in the most recent title matching
// title. It returns (nil, nil) when no title or no cast member matches.
//
// A cast member matches when any of their credited characters equals role
// exactly or contains it under Unicode case folding. Cast is scanned once in
// provider order, so the first member satisfying either test wins.
func (c *Client) FindActorByRole(ctx context.Context, title, role string, kind domain.MediaKind) (*domain.ActorIdentity, error) {
	const op = "findActorByRole"

	title = strings.TrimSpace(title)
	role = strings.TrimSpace(role)
	if title == "" || role == "" || !kind.Valid() {
		return nil, wrapError(op, title, ErrBadRequest)
	}

	match, err := c.mostRecentTitle(ctx, op, title, kind)
	if err != nil {
		return nil, err
	}
	if match == nil {
		c.logger.Debug("no title found for role lookup", "title", title, "kind", kind)
		return nil, nil
	}

	path := "/movie/" + idQuery(match.ID) + "/credits"
	if kind == domain.MediaTV {
		path = "/tv/" + idQuery(match.ID) + "/aggregate_credits"
	}

	body, err := c.doRequest(ctx, op, path, nil)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(op, title, err)
	}

	var credits rawCastList
	if err := json.Unmarshal(body, &credits); err != nil {
		return nil, wrapError(op, title, fmt.Errorf("parse credits: %w", err))
	}

	member := matchRole(credits.Cast, role)
	if member == nil {
		c.logger.Debug("role not found in cast", "title", title, "role", role, "kind", kind)
		return nil, nil
	}
	return &domain.ActorIdentity{Name: member.Name, ProviderID: member.ID}, nil
}

// opPosterURL is routed through the poster circuit breaker.
const opPosterURL = "posterURL"

// PosterURL returns the poster image URL of the most recent TV show matching
// title, or "" when there is no match or no poster.
func (c *Client) PosterURL(ctx context.Context, title string) (string, error) {
	const op = opPosterURL

	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}

	match, err := c.searchTitles(ctx, op, title, domain.MediaTV)
	if err != nil {
		return "", err
	}
	if len(match) == 0 || match[0].PosterPath == "" {
		return "", nil
	}
	return c.imageBaseURL + match[0].PosterPath, nil
}

// mostRecentTitle returns the search result with the latest date, nil when
// there are no results.
func (c *Client) mostRecentTitle(ctx context.Context, op, title string, kind domain.MediaKind) (*rawTitle, error) {
	results, err := c.searchTitles(ctx, op, title, kind)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	sortByDateDesc(results)
	return &results[0], nil
}

func (c *Client) searchTitles(ctx context.Context, op, title string, kind domain.MediaKind) ([]rawTitle, error) {
	query := url.Values{}
	query.Set("query", title)
	query.Set("include_adult", "false")

	body, err := c.doRequest(ctx, op, "/search/"+string(kind), query)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(op, title, err)
	}

	var resp rawTitleSearch
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError(op, title, fmt.Errorf("parse response: %w", err))
	}
	return resp.Results, nil
}

// sortByDateDesc orders titles newest first. A missing date compares as ""
// and therefore sorts last; ties keep provider order.
func sortByDateDesc(titles []rawTitle) {
	slices.SortStableFunc(titles, func(a, b rawTitle) int {
		return strings.Compare(b.date(), a.date())
	})
}

func matchRole(cast []rawCastMember, role string) *rawCastMember {
	fold := cases.Fold()
	want := fold.String(role)

	for i := range cast {
		for _, character := range cast[i].characters() {
			if character == role || strings.Contains(fold.String(character), want) {
				return &cast[i]
			}
		}
	}
	return nil
}

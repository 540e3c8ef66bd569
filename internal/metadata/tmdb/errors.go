package tmdb

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for TMDb operations.
var (
	ErrMissingAPIKey = errors.New("tmdb: api key is required")
	ErrNotFound      = errors.New("tmdb: not found")
	ErrUnauthorized  = errors.New("tmdb: unauthorized")
	ErrRateLimited   = errors.New("tmdb: rate limited by server")
	ErrBadRequest    = errors.New("tmdb: bad request")
	ErrServer        = errors.New("tmdb: server error")
	ErrCircuitOpen   = errors.New("tmdb: circuit open")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // "resolveActor", "filmography", "findActorByRole", "posterURL"
	Query string // name, title or id, if applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("tmdb %s [%s]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}

func idQuery(id int) string {
	return strconv.Itoa(id)
}

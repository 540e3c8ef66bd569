package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tvrec/tvrec-server/internal/domain"
	"github.com/tvrec/tvrec-server/internal/metadata/tmdb"
	"github.com/tvrec/tvrec-server/internal/ratings"
)

type roleKey struct {
	title string
	role  string
	kind  domain.MediaKind
}

// fakeCatalog is an in-memory CatalogProvider that records calls.
type fakeCatalog struct {
	mu sync.Mutex

	actors     map[string]domain.ActorIdentity
	roles      map[roleKey]domain.ActorIdentity
	roleErrs   map[domain.MediaKind]error
	credits    map[int][]domain.FilmographyEntry
	resolveErr error
	creditsErr error
	calls      []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		actors:   map[string]domain.ActorIdentity{},
		roles:    map[roleKey]domain.ActorIdentity{},
		roleErrs: map[domain.MediaKind]error{},
		credits:  map[int][]domain.FilmographyEntry{},
	}
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) ResolveActor(_ context.Context, name string) (*domain.ActorIdentity, error) {
	f.record("resolve:" + name)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	a, ok := f.actors[name]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return &a, nil
}

func (f *fakeCatalog) Filmography(_ context.Context, actorID int) ([]domain.FilmographyEntry, error) {
	f.record(fmt.Sprintf("filmography:%d", actorID))
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	return f.credits[actorID], nil
}

func (f *fakeCatalog) FindActorByRole(_ context.Context, title, role string, kind domain.MediaKind) (*domain.ActorIdentity, error) {
	f.record(fmt.Sprintf("role:%s:%s:%s", kind, title, role))
	if err := f.roleErrs[kind]; err != nil {
		return nil, err
	}
	a, ok := f.roles[roleKey{title, role, kind}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// fakeGenerator returns a canned completion and captures the request.
type fakeGenerator struct {
	text   string
	err    error
	system string
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompt = prompt
	return f.text, f.err
}

// fakeLoader serves ratings by source.
type fakeLoader struct {
	maps map[string]*ratings.Map
	errs map[string]error
}

func (f *fakeLoader) Load(_ context.Context, source string) (*ratings.Map, error) {
	if err := f.errs[source]; err != nil {
		return ratings.Empty(), err
	}
	m, ok := f.maps[source]
	if !ok {
		return ratings.Empty(), fmt.Errorf("unknown source %q", source)
	}
	return m, nil
}

type fakePosters struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	calls int
}

func (f *fakePosters) PosterURL(_ context.Context, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.urls[title], nil
}

type fakeSearcher struct {
	enabled bool
	url     string
	err     error
	query   string
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) FirstImage(_ context.Context, query string) (string, error) {
	f.query = query
	return f.url, f.err
}

func ratingsOf(pairs ...any) *ratings.Map {
	entries := make([]ratings.Entry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, ratings.Entry{Title: pairs[i].(string), Score: float64(pairs[i+1].(int))})
	}
	return ratings.NewMap(entries)
}

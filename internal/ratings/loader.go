package ratings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultFetchTimeout = 15 * time.Second

// Sentinel errors for loading.
var (
	ErrEmptySource = errors.New("ratings: source is empty")
	ErrFetch       = errors.New("ratings: fetch failed")
	ErrParse       = errors.New("ratings: parse failed")
)

// Loader reads ratings from a CSV source: an http(s) URL, a file:// URL or a local path.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLoader creates a loader. A nil httpClient gets a client with timeout.
func NewLoader(httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Loader{httpClient: httpClient, logger: logger}
}

// Load fetches and parses source. The first row is a header and is skipped.
// Column 1 is the title and column 2 the score; further columns are ignored.
// Rows with a blank title, or a blank, non-numeric, NaN or infinite score,
// are dropped.
//
// On any failure Load returns an empty, non-nil Map together with the error.
func (l *Loader) Load(ctx context.Context, source string) (*Map, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Empty(), ErrEmptySource
	}

	rc, err := l.open(ctx, source)
	if err != nil {
		return Empty(), fmt.Errorf("%w: %s: %w", ErrFetch, source, err)
	}
	defer rc.Close()

	m, dropped, err := Parse(rc)
	if err != nil {
		return Empty(), fmt.Errorf("%w: %s: %w", ErrParse, source, err)
	}

	l.logger.Debug("ratings parsed", "source", source, "entries", m.Len(), "dropped", dropped)
	return m, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if path, ok := LocalPath(source); ok {
		return os.Open(path) //#nosec G304 -- ratings path comes from the operator
	}
	return l.fetch(ctx, source)
}

// LocalPath reports whether source names a local file, returning its path.
// file:// URLs and bare paths are local; http(s) URLs are not.
func LocalPath(source string) (string, bool) {
	u, err := url.Parse(source)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return "", false
		case "file":
			return u.Path, true
		}
	}
	return source, true
}

func (l *Loader) fetch(ctx context.Context, source string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Parse reads CSV from r into a Map, returning how many data rows were dropped.
func Parse(r io.Reader) (*Map, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Empty(), 0, nil
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	var (
		entries []Entry
		dropped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		entry, ok := parseRow(record)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}

	return NewMap(entries), dropped, nil
}

func parseRow(record []string) (Entry, bool) {
	if len(record) < 2 {
		return Entry{}, false
	}
	title := strings.TrimSpace(record[0])
	if title == "" {
		return Entry{}, false
	}
	raw := strings.TrimSpace(record[1])
	if raw == "" {
		return Entry{}, false
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return Entry{}, false
	}
	return Entry{Title: title, Score: score}, true
}

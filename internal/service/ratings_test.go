package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/watcher"
)

func newRatingsService(t *testing.T) *RatingsService {
	t.Helper()

	loader := &fakeLoader{
		maps: map[string]*ratings.Map{
			"default.csv": ratingsOf("Jujutsu Kaisen", 95),
			"other.csv":   ratingsOf("Dark", 90, "Severance", 85),
		},
		errs: map[string]error{
			"broken.csv": errors.New("connection refused"),
		},
	}
	return NewRatingsService(loader, nil, "default.csv", logger.Nop())
}

func TestRatingsService_StartsEmpty(t *testing.T) {
	svc := newRatingsService(t)

	assert.NotNil(t, svc.Current())
	assert.Equal(t, 0, svc.Current().Len())
	assert.Empty(t, svc.Revision())
}

func TestRatingsService_ReloadDefault(t *testing.T) {
	svc := newRatingsService(t)

	res := svc.Reload(context.Background(), "")

	require.False(t, res.Failed())
	assert.Equal(t, "default.csv", res.Value.Source)
	assert.Contains(t, res.Value.Revision, "rev-")
	assert.Equal(t, 1, svc.Current().Len())
	assert.Equal(t, "default.csv", svc.Source())
}

func TestRatingsService_ReloadTwiceIsIdempotent(t *testing.T) {
	svc := newRatingsService(t)

	first := svc.Reload(context.Background(), "other.csv")
	second := svc.Reload(context.Background(), "other.csv")

	require.False(t, first.Failed())
	require.False(t, second.Failed())
	assert.True(t, first.Value.Ratings.Equal(second.Value.Ratings))
	assert.NotEqual(t, first.Value.Revision, second.Value.Revision)
}

func TestRatingsService_NoneMeansDefault(t *testing.T) {
	svc := newRatingsService(t)

	res := svc.Reload(context.Background(), "None")

	require.False(t, res.Failed())
	assert.Equal(t, "default.csv", res.Value.Source)
}

func TestRatingsService_FailedReloadInstallsEmpty(t *testing.T) {
	svc := newRatingsService(t)
	require.False(t, svc.Reload(context.Background(), "other.csv").Failed())

	res := svc.Reload(context.Background(), "broken.csv")

	require.True(t, res.Failed())
	assert.True(t, errors.Is(res.Failure, domainerrors.ErrProviderFailure))
	var derr *domainerrors.Error
	require.ErrorAs(t, res.Failure, &derr)
	assert.Equal(t, map[string]string{"source": "broken.csv"}, derr.Details)
	assert.Equal(t, 0, svc.Current().Len())
	assert.Equal(t, "broken.csv", svc.Source())
}

func TestRatingsService_NoSourceConfigured(t *testing.T) {
	svc := NewRatingsService(&fakeLoader{}, ratings.NewStore(ratingsOf("Dark", 90)), "", logger.Nop())

	res := svc.Reload(context.Background(), "  ")

	require.True(t, res.Failed())
	assert.True(t, errors.Is(res.Failure, domainerrors.ErrValidation))
	assert.Equal(t, 1, svc.Current().Len(), "existing ratings stay installed")
}

func TestRatingsService_WatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Rating\n"), 0o600))

	w, err := watcher.New(logger.Nop(), path, watcher.Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	loader := ratings.NewLoader(nil, time.Second, logger.Nop())
	svc := NewRatingsService(loader, nil, path, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx) //nolint:errcheck // Test goroutine
	go svc.Watch(ctx, w)

	require.NoError(t, os.WriteFile(path, []byte("Title,Rating\nJujutsu Kaisen,95\n"), 0o600))

	assert.Eventually(t, func() bool {
		return svc.Current().Has("Jujutsu Kaisen")
	}, 3*time.Second, 20*time.Millisecond)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrec/tvrec-server/internal/domain"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestKnown_FlagGroups(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", []string{"known"}},
		{"show without role", []string{"known", "--show", "Jujutsu Kaisen"}},
		{"role without show", []string{"known", "--role", "Toji"}},
		{"actor and show", []string{"known", "--actor", "A", "--show", "S", "--role", "R"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRatings_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Score\nDark,92\nFrieren,97.5\nBroken,abc\n"), 0o600))

	// Keep .env and config.yaml lookups inside the temp dir.
	t.Chdir(dir)

	out, err := execute(t, "ratings", "--source", path)
	require.NoError(t, err)

	assert.Contains(t, out, "2 ratings from "+path)
	assert.Contains(t, out, "  Dark: 92/100\n")
	assert.Contains(t, out, "  Frieren: 97.5/100\n")
	assert.NotContains(t, out, "Broken")
}

func TestRatings_MissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "ratings", "--source", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestKnown_WithoutCatalogKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TMDB_API_KEY", "")

	_, err := execute(t, "known", "--actor", "Takehito Koyasu")
	assert.ErrorContains(t, err, "TMDB_API_KEY")
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	printMatches(&buf, []domain.KnownShowMatch{
		{Title: "JoJo's Bizarre Adventure", Year: "2012-10-06"},
		{Title: "Jujutsu Kaisen", Year: "2020-10-03", Role: domain.StringPtr("Toji")},
	})
	assert.Equal(t, "JoJo's Bizarre Adventure (2012-10-06)\nJujutsu Kaisen (2020-10-03) as Toji\n", buf.String())

	buf.Reset()
	printMatches(&buf, nil)
	assert.Equal(t, "No rated shows found.\n", buf.String())
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	printRecommendations(&buf, []string{"Attack on Titan", "Chainsaw Man"})
	assert.Equal(t, " 1. Attack on Titan\n 2. Chainsaw Man\n", buf.String())
}

func TestPrintRatings(t *testing.T) {
	var buf bytes.Buffer
	printRatings(&buf, service.RatingsSnapshot{
		Ratings:  ratings.NewMap([]ratings.Entry{{Title: "Dark", Score: 92}}),
		Source:   "ratings.csv",
		Revision: "rev-1",
	})
	assert.Equal(t, "1 ratings from ratings.csv (revision rev-1)\n  Dark: 92/100\n", buf.String())
}

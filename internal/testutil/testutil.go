package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/repository"
	"github.com/vytor/hvladder/internal/repository/sqlite"
	"gopkg.in/yaml.v3"
)

// NewTestStore creates a migrated store file in a per-test temp directory.
// The returned repository is closed when the test ends.
func NewTestStore(t *testing.T) (repository.SnapshotRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.sqlite3")
	repo, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Result builds a decisive result where winner beat loser at start.
func Result(filename string, start time.Time, winner, loser string) models.MatchResult {
	return models.MatchResult{
		Filename:  filename,
		StartTime: start,
		EndTime:   start.Add(20 * time.Minute),
		Player0:   models.Participant{Fingerprint: winner, Faction: "Synapol", SelectedFaction: "Random"},
		Player1:   models.Participant{Fingerprint: loser, Faction: "Yuruki", SelectedFaction: "Yuruki"},
		MapUID:    "map-" + filename,
		MapTitle:  "Map " + filename,
	}
}

// Accounts builds one cached account per fingerprint, with profile ids
// starting at 1 and the fingerprint as the name.
func Accounts(fingerprints ...string) []models.Account {
	accounts := make([]models.Account, 0, len(fingerprints))
	for i, fp := range fingerprints {
		accounts = append(accounts, models.Account{
			Fingerprint: fp,
			Identity:    models.Identity{ProfileID: int64(i + 1), Name: fp},
		})
	}
	return accounts
}

// WriteYAML marshals v into dir/name and returns the file path.
func WriteYAML(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	require.NoError(t, err)
	return WriteFile(t, dir, name, string(data))
}

// WriteFile writes content into dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

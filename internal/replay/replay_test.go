package replay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/replay"
	"github.com/vytor/hvladder/internal/testutil"
	"github.com/vytor/hvladder/internal/testutil/mocks"
)

func resultDoc(start, winner, loser string) string {
	return `start_time: ` + start + `
end_time: ` + start + `
map_uid: abc123
map_title: Crossroads
players:
  - fingerprint: ` + winner + `
    faction: Synapol
    selected_faction: Random
    outcome: won
  - fingerprint: ` + loser + `
    faction: Yuruki
    selected_faction: Yuruki
    outcome: lost
`
}

var january = models.Period{
	Name:  "2024-1",
	Start: testutil.Date(2024, 1, 1),
	End:   testutil.Date(2024, 2, 1),
}

func TestParse_WinnerGoesFirst(t *testing.T) {
	doc := `start_time: 2024-01-05T10:00:00Z
end_time: 2024-01-05T10:25:00Z
map_uid: abc
map_title: Crossroads
players:
  - fingerprint: fp-b
    faction: Yuruki
    selected_faction: Random
    outcome: Lost
  - fingerprint: fp-a
    faction: Synapol
    selected_faction: Synapol
    outcome: Won
`
	res, skip, err := replay.Parse([]byte(doc), "g1.yml")
	require.NoError(t, err)
	assert.Empty(t, skip)
	assert.Equal(t, "g1.yml", res.Filename)
	assert.Equal(t, "fp-a", res.Player0.Fingerprint)
	assert.Equal(t, "Synapol", res.Player0.Faction)
	assert.Equal(t, "fp-b", res.Player1.Fingerprint)
	assert.Equal(t, "Random", res.Player1.SelectedFaction)
	assert.Equal(t, "Crossroads", res.MapTitle)
}

func TestParse_Skips(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		skip string
	}{
		{
			name: "three players",
			doc: `start_time: 2024-01-05T10:00:00Z
players:
  - {fingerprint: a, outcome: won}
  - {fingerprint: b, outcome: lost}
  - {fingerprint: c, outcome: lost}
`,
			skip: "3 players",
		},
		{
			name: "draw",
			doc: `start_time: 2024-01-05T10:00:00Z
players:
  - {fingerprint: a, outcome: undefined}
  - {fingerprint: b, outcome: undefined}
`,
			skip: "no decisive outcome",
		},
		{
			name: "anonymous",
			doc: `start_time: 2024-01-05T10:00:00Z
players:
  - {fingerprint: "", outcome: won}
  - {fingerprint: b, outcome: lost}
`,
			skip: "anonymous player",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, skip, err := replay.Parse([]byte(tt.doc), "x.yml")
			require.NoError(t, err)
			assert.Equal(t, tt.skip, skip)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, _, err := replay.Parse([]byte("players: [unterminated"), "bad.yml")
	assert.Error(t, err)

	_, _, err = replay.Parse([]byte("map_uid: x\n"), "nostart.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_time")
}

func TestSource_LoadFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b/late.yml", resultDoc("2024-01-10T00:00:00Z", "fp-b", "fp-a"))
	testutil.WriteFile(t, dir, "a/early.yaml", resultDoc("2024-01-05T00:00:00Z", "fp-a", "fp-b"))
	testutil.WriteFile(t, dir, "boundary.yml", resultDoc("2024-02-01T00:00:00Z", "fp-a", "fp-b"))
	testutil.WriteFile(t, dir, "start.yml", resultDoc("2024-01-01T00:00:00Z", "fp-a", "fp-b"))
	testutil.WriteFile(t, dir, "stranger.yml", resultDoc("2024-01-07T00:00:00Z", "fp-a", "fp-nobody"))
	testutil.WriteFile(t, dir, "notes.txt", "not a result")

	cache := accounts.NewCache(testutil.Accounts("fp-a", "fp-b"), nil)
	results, err := replay.NewSource([]string{dir}, 3).Load(context.Background(), cache, january)
	require.NoError(t, err)

	var names []string
	for _, r := range results {
		names = append(names, r.Filename)
	}
	assert.Equal(t, []string{"start.yml", "early.yaml", "late.yml"}, names)
	assert.Equal(t, "fp-b", results[2].Player0.Fingerprint)
}

func TestSource_LoadSameStartOrdersByFilename(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "z.yml", resultDoc("2024-01-05T00:00:00Z", "fp-a", "fp-b"))
	testutil.WriteFile(t, dir, "sub/a.yml", resultDoc("2024-01-05T00:00:00Z", "fp-b", "fp-a"))

	cache := accounts.NewCache(testutil.Accounts("fp-a", "fp-b"), nil)
	results, err := replay.NewSource([]string{dir}, 2).Load(context.Background(), cache, january)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.yml", results[0].Filename)
	assert.Equal(t, "z.yml", results[1].Filename)
}

func TestSource_LoadResolvesThroughCache(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "g1.yml", resultDoc("2024-01-05T00:00:00Z", "fp-a", "fp-new"))

	resolver := new(mocks.MockResolver)
	resolver.On("Resolve", mock.Anything, "fp-new").Return(&models.Identity{ProfileID: 42, Name: "newbie"}, nil).Once()

	cache := accounts.NewCache(testutil.Accounts("fp-a"), resolver)
	results, err := replay.NewSource([]string{dir}, 1).Load(context.Background(), cache, january)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Len(t, cache.Discovered(), 1)
	resolver.AssertExpectations(t)
}

func TestSource_LoadPassesErrorsThrough(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "good.yml", resultDoc("2024-01-05T00:00:00Z", "fp-a", "fp-b"))
	testutil.WriteFile(t, dir, "bad.yml", "start_time: [")

	cache := accounts.NewCache(testutil.Accounts("fp-a", "fp-b"), nil)
	_, err := replay.NewSource([]string{dir}, 2).Load(context.Background(), cache, january)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")

	boom := errors.New("account service down")
	resolver := new(mocks.MockResolver)
	resolver.On("Resolve", mock.Anything, "fp-b").Return(nil, boom)

	cache = accounts.NewCache(testutil.Accounts("fp-a"), resolver)
	_, err = replay.NewSource([]string{testutil.WriteFile(t, t.TempDir(), "g.yml", resultDoc("2024-01-05T00:00:00Z", "fp-a", "fp-b"))}, 1).
		Load(context.Background(), cache, january)
	assert.ErrorIs(t, err, boom)
}

func TestSource_LoadMissingPath(t *testing.T) {
	cache := accounts.NewCache(nil, nil)
	_, err := replay.NewSource([]string{"/does/not/exist"}, 1).Load(context.Background(), cache, january)
	assert.Error(t, err)
}

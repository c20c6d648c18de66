package ranking_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/directory"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/ranking"
)

func newResolver(algo ranking.Algorithm) *directory.Directory {
	cache := accounts.NewCache([]models.Account{
		{Fingerprint: "fp-a", Identity: models.Identity{ProfileID: 1, Name: "alice"}},
		{Fingerprint: "fp-b", Identity: models.Identity{ProfileID: 2, Name: "bob"}},
		{Fingerprint: "fp-c", Identity: models.Identity{ProfileID: 3, Name: "carol"}},
	}, nil)
	return directory.New(cache, algo.DefaultRating)
}

func game(name, winner, loser string, day int) models.MatchResult {
	return models.MatchResult{
		Filename:  name,
		StartTime: time.Date(2024, time.January, day, 12, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, time.January, day, 12, 20, 0, 0, time.UTC),
		Player0:   models.Participant{Fingerprint: winner},
		Player1:   models.Participant{Fingerprint: loser},
	}
}

func TestNew_Registry(t *testing.T) {
	assert.Equal(t, []string{"elo", "openskill", "trueskill"}, ranking.Names())

	for _, name := range ranking.Names() {
		algo, err := ranking.New(name)
		require.NoError(t, err)
		assert.Equal(t, name, algo.Name())
	}

	_, err := ranking.New("glicko")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
	assert.Equal(t, apperrors.ExitConfiguration, apperrors.ExitCodeFor(err))
}

func TestElo_SingleGame(t *testing.T) {
	algo := ranking.NewElo()
	pairs, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-b", 5)}, newResolver(algo))
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, 1516.0, pairs[0].P0.DisplayValue())
	assert.Equal(t, 1484.0, pairs[0].P1.DisplayValue())
}

func TestElo_SeedsFromResolverRating(t *testing.T) {
	algo := ranking.NewElo()
	dir := newResolver(algo)
	alice, err := dir.ByFingerprint("fp-a")
	require.NoError(t, err)
	alice.Rating = ranking.EloRating{Value: 1900}

	pairs, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-b", 5)}, dir)
	require.NoError(t, err)

	gain := pairs[0].P0.DisplayValue() - 1900
	assert.Greater(t, gain, 0.0)
	assert.Less(t, gain, 16.0, "a favourite gains less than an even match would give")
}

func TestAlgorithms_RatingContinuity(t *testing.T) {
	results := []models.MatchResult{
		game("g1", "fp-a", "fp-b", 5),
		game("g2", "fp-c", "fp-a", 6),
		game("g3", "fp-b", "fp-a", 7),
	}

	for _, name := range ranking.Names() {
		t.Run(name, func(t *testing.T) {
			algo, err := ranking.New(name)
			require.NoError(t, err)

			pairs, err := algo.ComputeRatings(results, newResolver(algo))
			require.NoError(t, err)
			require.Len(t, pairs, len(results))

			// alice: winner of g1, loser of g2 and g3
			first := pairs[0].P0.DisplayValue()
			second := pairs[1].P1.DisplayValue()
			third := pairs[2].P1.DisplayValue()
			assert.Less(t, second, first, "losing g2 lowers alice from her g1 rating")
			assert.Less(t, third, second, "losing g3 compounds on g2")
		})
	}
}

func TestBayesian_WinnerGainsLoserLoses(t *testing.T) {
	for _, algo := range []ranking.Algorithm{ranking.NewTrueSkill(), ranking.NewOpenSkill()} {
		t.Run(algo.Name(), func(t *testing.T) {
			pairs, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-b", 5)}, newResolver(algo))
			require.NoError(t, err)

			def := algo.DefaultRating().(ranking.SkillRating)
			w := pairs[0].P0.(ranking.SkillRating)
			l := pairs[0].P1.(ranking.SkillRating)

			assert.Greater(t, w.Mu, def.Mu)
			assert.Less(t, l.Mu, def.Mu)
			assert.Less(t, w.Sigma, def.Sigma)
			assert.Less(t, l.Sigma, def.Sigma)
			assert.InDelta(t, w.Mu-def.Mu, def.Mu-l.Mu, 1e-9, "equal priors move symmetrically")
			assert.Greater(t, w.DisplayValue(), l.DisplayValue())
		})
	}
}

func firstGame(t *testing.T, algo ranking.Algorithm) (ranking.SkillRating, ranking.SkillRating) {
	t.Helper()
	pairs, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-b", 5)}, newResolver(algo))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	return pairs[0].P0.(ranking.SkillRating), pairs[0].P1.(ranking.SkillRating)
}

func TestTrueSkill_FirstGameUpdate(t *testing.T) {
	winner, loser := firstGame(t, ranking.NewTrueSkill())

	assert.InDelta(t, 29.395831692991514, winner.Mu, 1e-6)
	assert.InDelta(t, 7.171475807009221, winner.Sigma, 1e-6)
	assert.InDelta(t, 20.604168307008486, loser.Mu, 1e-6)
	assert.InDelta(t, 7.171475807009221, loser.Sigma, 1e-6)
}

func TestTrueSkill_DrawProbabilityWidensTheWin(t *testing.T) {
	noDraws := ranking.NewTrueSkill()
	noDraws.DrawProbability = 0
	winner, loser := firstGame(t, noDraws)

	assert.InDelta(t, 29.205473176557785, winner.Mu, 1e-6)
	assert.InDelta(t, 7.194816484813345, winner.Sigma, 1e-6)
	assert.InDelta(t, 20.794526823442215, loser.Mu, 1e-6)

	withDraws, _ := firstGame(t, ranking.NewTrueSkill())
	assert.Greater(t, withDraws.Mu, winner.Mu, "a win outside a draw margin says more")
}

func TestOpenSkill_FirstGameUpdate(t *testing.T) {
	winner, loser := firstGame(t, ranking.NewOpenSkill())

	assert.InDelta(t, 27.63523138347365, winner.Mu, 1e-3)
	assert.InDelta(t, 8.065506316323548, winner.Sigma, 1e-3)
	assert.InDelta(t, 22.36476861652635, loser.Mu, 1e-3)
	assert.InDelta(t, 8.065506316323548, loser.Sigma, 1e-3)
}

func TestSkillRating_DisplayValue(t *testing.T) {
	assert.Equal(t, 0.0, ranking.SkillRating{Mu: 25, Sigma: 25.0 / 3}.DisplayValue())
	assert.Equal(t, 10.12, ranking.SkillRating{Mu: 16.123, Sigma: 2.001}.DisplayValue())
}

func TestComputeRatings_SelfPlay(t *testing.T) {
	algo := ranking.NewElo()
	_, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-a", 5)}, newResolver(algo))
	assert.Error(t, err)
}

func TestComputeRatings_UnresolvedParticipant(t *testing.T) {
	algo := ranking.NewElo()
	_, err := algo.ComputeRatings([]models.MatchResult{game("g1", "fp-a", "fp-ghost", 5)}, newResolver(algo))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

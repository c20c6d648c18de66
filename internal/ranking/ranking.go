// Package ranking holds the interchangeable rating systems.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/models"
)

// PlayerResolver returns the live record of a participant, whose Rating is the
// participant's current rating.
type PlayerResolver interface {
	Resolve(p models.Participant) (*models.Player, error)
}

// Pair holds the post-match ratings of both participants of one result.
type Pair struct {
	P0 models.Rating
	P1 models.Rating
}

// Algorithm is a rating system. ComputeRatings expects results sorted by start
// time; any other order yields different, meaningless ratings without error.
// The two players of a result must be distinct profiles; ComputeRatings fails
// the whole computation otherwise, so callers drop self-play first.
type Algorithm interface {
	Name() string
	DefaultRating() models.Rating
	ComputeRatings(results []models.MatchResult, players PlayerResolver) ([]Pair, error)
}

var registry = map[string]func() Algorithm{
	"elo":       func() Algorithm { return NewElo() },
	"trueskill": func() Algorithm { return NewTrueSkill() },
	"openskill": func() Algorithm { return NewOpenSkill() },
}

// New returns the algorithm registered under name.
func New(name string) (Algorithm, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("unknown ranking system %q (choose from %s)", name, strings.Join(Names(), ", ")))
	}
	return ctor(), nil
}

// Names lists the registered algorithms.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// series tracks the evolving rating of every profile seen so far in one call
// to ComputeRatings, seeded from the resolver on first sight.
type series[R models.Rating] struct {
	players PlayerResolver
	current map[int64]R
	convert func(models.Rating) R
}

func newSeries[R models.Rating](players PlayerResolver, convert func(models.Rating) R) *series[R] {
	return &series[R]{players: players, current: make(map[int64]R), convert: convert}
}

func (s *series[R]) get(p models.Participant) (int64, R, error) {
	var zero R
	player, err := s.players.Resolve(p)
	if err != nil {
		return 0, zero, err
	}
	if r, ok := s.current[player.ProfileID]; ok {
		return player.ProfileID, r, nil
	}
	r := s.convert(player.Rating)
	s.current[player.ProfileID] = r
	return player.ProfileID, r, nil
}

// run folds the update function over the results in order.
func (s *series[R]) run(results []models.MatchResult, update func(winner, loser R) (R, R)) ([]Pair, error) {
	pairs := make([]Pair, 0, len(results))
	for _, res := range results {
		id0, r0, err := s.get(res.Player0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Filename, err)
		}
		id1, r1, err := s.get(res.Player1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Filename, err)
		}
		if id0 == id1 {
			return nil, fmt.Errorf("%s: profile %d played against itself", res.Filename, id0)
		}
		n0, n1 := update(r0, r1)
		s.current[id0] = n0
		s.current[id1] = n1
		pairs = append(pairs, Pair{P0: n0, P1: n1})
	}
	return pairs, nil
}

package ranking

import (
	"math"

	"github.com/vytor/hvladder/internal/models"
)

const (
	eloBase = 1500.0
	eloK    = 32.0
)

// EloRating is a classic Elo score.
type EloRating struct {
	Value float64
}

func (r EloRating) DisplayValue() float64 { return math.Round(r.Value) }

// Elo is the standard logistic Elo system with a fixed K factor.
type Elo struct {
	K    float64
	Base float64
}

func NewElo() *Elo { return &Elo{K: eloK, Base: eloBase} }

func (e *Elo) Name() string { return "elo" }

func (e *Elo) DefaultRating() models.Rating { return EloRating{Value: e.Base} }

func (e *Elo) ComputeRatings(results []models.MatchResult, players PlayerResolver) ([]Pair, error) {
	s := newSeries(players, func(r models.Rating) EloRating {
		if er, ok := r.(EloRating); ok {
			return er
		}
		return EloRating{Value: e.Base}
	})
	return s.run(results, e.update)
}

func (e *Elo) update(winner, loser EloRating) (EloRating, EloRating) {
	expected := 1 / (1 + math.Pow(10, (loser.Value-winner.Value)/400))
	delta := e.K * (1 - expected)
	return EloRating{Value: winner.Value + delta}, EloRating{Value: loser.Value - delta}
}

package ranking

import (
	"math"

	"github.com/vytor/hvladder/internal/models"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultMu    = 25.0
	defaultSigma = defaultMu / 3

	// Environment of the reference TrueSkill implementation.
	defaultBeta            = defaultSigma / 2
	defaultTau             = defaultSigma / 100
	defaultDrawProbability = 0.10
	minSigmaFactor         = 1e-4
)

// SkillRating is a Gaussian belief over a player's skill.
type SkillRating struct {
	Mu    float64
	Sigma float64
}

// DisplayValue is the conservative estimate mu - 3*sigma, to two decimals.
func (r SkillRating) DisplayValue() float64 {
	return math.Round((r.Mu-3*r.Sigma)*100) / 100
}

func toSkill(r models.Rating) SkillRating {
	if sr, ok := r.(SkillRating); ok {
		return sr
	}
	return SkillRating{Mu: defaultMu, Sigma: defaultSigma}
}

// TrueSkill is the two-player TrueSkill update. A decisive game is a win
// outside the draw margin implied by DrawProbability.
type TrueSkill struct {
	Mu              float64
	Sigma           float64
	Beta            float64
	Tau             float64
	DrawProbability float64
}

func NewTrueSkill() *TrueSkill {
	return &TrueSkill{
		Mu:              defaultMu,
		Sigma:           defaultSigma,
		Beta:            defaultBeta,
		Tau:             defaultTau,
		DrawProbability: defaultDrawProbability,
	}
}

func (t *TrueSkill) Name() string { return "trueskill" }

func (t *TrueSkill) DefaultRating() models.Rating { return SkillRating{Mu: t.Mu, Sigma: t.Sigma} }

func (t *TrueSkill) ComputeRatings(results []models.MatchResult, players PlayerResolver) ([]Pair, error) {
	return newSeries(players, toSkill).run(results, t.update)
}

// drawMargin is the performance gap under which two players draw.
func (t *TrueSkill) drawMargin() float64 {
	return distuv.UnitNormal.Quantile((t.DrawProbability+1)/2) * math.Sqrt2 * t.Beta
}

func (t *TrueSkill) update(winner, loser SkillRating) (SkillRating, SkillRating) {
	// skills drift a little between games
	ws2 := winner.Sigma*winner.Sigma + t.Tau*t.Tau
	ls2 := loser.Sigma*loser.Sigma + t.Tau*t.Tau

	c2 := 2*t.Beta*t.Beta + ws2 + ls2
	c := math.Sqrt(c2)
	x := (winner.Mu-loser.Mu)/c - t.drawMargin()/c

	v := vWin(x)
	w := v * (v + x)

	return SkillRating{
			Mu:    winner.Mu + ws2/c*v,
			Sigma: math.Sqrt(ws2 * math.Max(1-ws2/c2*w, minSigmaFactor)),
		}, SkillRating{
			Mu:    loser.Mu - ls2/c*v,
			Sigma: math.Sqrt(ls2 * math.Max(1-ls2/c2*w, minSigmaFactor)),
		}
}

// vWin is the mean shift N(x)/Phi(x) of a Gaussian truncated below x.
func vWin(x float64) float64 {
	cdf := distuv.UnitNormal.CDF(x)
	if cdf == 0 {
		return -x
	}
	return distuv.UnitNormal.Prob(x) / cdf
}

package ranking

import (
	"github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"
	"github.com/vytor/hvladder/internal/models"
)

// OpenSkill rates games with the Weng-Lin Plackett-Luce model, each player
// being a one-member team.
type OpenSkill struct{}

func NewOpenSkill() *OpenSkill {
	return &OpenSkill{}
}

func (o *OpenSkill) Name() string { return "openskill" }

func (o *OpenSkill) DefaultRating() models.Rating {
	r := rating.New()
	return SkillRating{Mu: r.Mu, Sigma: r.Sigma}
}

func (o *OpenSkill) ComputeRatings(results []models.MatchResult, players PlayerResolver) ([]Pair, error) {
	return newSeries(players, toSkill).run(results, o.update)
}

func (o *OpenSkill) update(winner, loser SkillRating) (SkillRating, SkillRating) {
	// teams are listed best first
	rated := rating.Rate([]types.Team{
		{types.Rating{Mu: winner.Mu, Sigma: winner.Sigma}},
		{types.Rating{Mu: loser.Mu, Sigma: loser.Sigma}},
	}, nil)
	w, l := rated[0][0], rated[1][0]
	return SkillRating{Mu: w.Mu, Sigma: w.Sigma}, SkillRating{Mu: l.Mu, Sigma: l.Sigma}
}

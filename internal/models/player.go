package models

// Rating is an algorithm specific skill estimate. Only its display value is persisted.
type Rating interface {
	DisplayValue() float64
}

// Player is the live, per-run record of one identity.
type Player struct {
	ProfileID int64
	Name      string
	AvatarURL string
	Banned    bool
	Wins      int
	Losses    int
	PrvRating Rating
	Rating    Rating
}

// NewPlayer creates a record with no games and the given starting rating.
func NewPlayer(id Identity, initial Rating) *Player {
	return &Player{
		ProfileID: id.ProfileID,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
		PrvRating: initial,
		Rating:    initial,
	}
}

// UpdateRating shifts the current rating into PrvRating.
func (p *Player) UpdateRating(r Rating) {
	p.PrvRating = p.Rating
	p.Rating = r
}

// Row reduces the record to its persisted form.
func (p *Player) Row() PlayerRow {
	return PlayerRow{
		ProfileID: p.ProfileID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Banned:    p.Banned,
		Wins:      p.Wins,
		Losses:    p.Losses,
		PrvRating: p.PrvRating.DisplayValue(),
		Rating:    p.Rating.DisplayValue(),
	}
}

// PlayerRow is one row of the players table.
type PlayerRow struct {
	ProfileID int64   `json:"profile_id"`
	Name      string  `json:"profile_name"`
	AvatarURL string  `json:"avatar_url"`
	Banned    bool    `json:"banned"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	PrvRating float64 `json:"prv_rating"`
	Rating    float64 `json:"rating"`
}

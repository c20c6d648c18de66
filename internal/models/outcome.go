package models

import "time"

// Outcome is the immutable record of one match, with both players' ratings
// captured right before and right after it.
type Outcome struct {
	Hash                   string
	Filename               string
	StartTime              time.Time
	EndTime                time.Time
	P0ProfileID            int64
	P1ProfileID            int64
	P0RatingBefore         Rating
	P1RatingBefore         Rating
	P0RatingAfter          Rating
	P1RatingAfter          Rating
	P0Faction, P1Faction   string
	P0Selected, P1Selected string
	MapUID                 string
	MapTitle               string
}

// OutcomeRow is one row of the outcomes table.
type OutcomeRow struct {
	Hash             string  `json:"hash"`
	DateStart        string  `json:"date_start"`
	DateEnd          string  `json:"date_end"`
	Filename         string  `json:"filename"`
	ProfileID0       int64   `json:"profile_id0"`
	ProfileID1       int64   `json:"profile_id1"`
	PrvRating0       float64 `json:"prv_rating0"`
	PrvRating1       float64 `json:"prv_rating1"`
	Rating0          float64 `json:"rating0"`
	Rating1          float64 `json:"rating1"`
	Faction0         string  `json:"faction0"`
	Faction1         string  `json:"faction1"`
	SelectedFaction0 string  `json:"selected_faction0"`
	SelectedFaction1 string  `json:"selected_faction1"`
	MapUID           string  `json:"map_uid"`
	MapTitle         string  `json:"map_title"`
}

// Snapshot is everything one run writes to a store.
type Snapshot struct {
	Accounts []Account
	Players  []PlayerRow
	Outcomes []OutcomeRow
}

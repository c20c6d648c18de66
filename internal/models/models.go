package models

import "time"

// Identity is the stable account behind a fingerprint.
type Identity struct {
	ProfileID int64  `json:"profile_id"`
	Name      string `json:"profile_name"`
	AvatarURL string `json:"avatar_url"`
}

// Account is one row of the identity cache.
type Account struct {
	Fingerprint string `json:"fingerprint"`
	Identity
}

// Participant is one side of a match as recorded in the replay.
type Participant struct {
	Fingerprint     string `json:"fingerprint"`
	Faction         string `json:"faction"`
	SelectedFaction string `json:"selected_faction"`
}

// MatchResult is a decisive 1v1 game. Player0 won, Player1 lost.
type MatchResult struct {
	Filename  string      `json:"filename"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Player0   Participant `json:"player0"`
	Player1   Participant `json:"player1"`
	MapUID    string      `json:"map_uid"`
	MapTitle  string      `json:"map_title"`
}

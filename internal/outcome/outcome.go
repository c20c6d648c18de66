package outcome

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/vytor/hvladder/internal/models"
)

// TimeLayout is the sortable, locale independent format of persisted timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Hash is the content key of a result: the hex SHA-256 of its source filename.
func Hash(filename string) string {
	sum := sha256.Sum256([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// Build records a match from the two participant records as they stand right
// after the rating update, so PrvRating holds the pre-match rating.
func Build(res models.MatchResult, p0, p1 *models.Player) models.Outcome {
	return models.Outcome{
		Hash:           Hash(res.Filename),
		Filename:       res.Filename,
		StartTime:      res.StartTime,
		EndTime:        res.EndTime,
		P0ProfileID:    p0.ProfileID,
		P1ProfileID:    p1.ProfileID,
		P0RatingBefore: p0.PrvRating,
		P1RatingBefore: p1.PrvRating,
		P0RatingAfter:  p0.Rating,
		P1RatingAfter:  p1.Rating,
		P0Faction:      res.Player0.Faction,
		P1Faction:      res.Player1.Faction,
		P0Selected:     res.Player0.SelectedFaction,
		P1Selected:     res.Player1.SelectedFaction,
		MapUID:         res.MapUID,
		MapTitle:       res.MapTitle,
	}
}

// Row reduces an outcome to its persisted form.
func Row(o models.Outcome) models.OutcomeRow {
	return models.OutcomeRow{
		Hash:             o.Hash,
		DateStart:        FormatTime(o.StartTime),
		DateEnd:          FormatTime(o.EndTime),
		Filename:         o.Filename,
		ProfileID0:       o.P0ProfileID,
		ProfileID1:       o.P1ProfileID,
		PrvRating0:       o.P0RatingBefore.DisplayValue(),
		PrvRating1:       o.P1RatingBefore.DisplayValue(),
		Rating0:          o.P0RatingAfter.DisplayValue(),
		Rating1:          o.P1RatingAfter.DisplayValue(),
		Faction0:         o.P0Faction,
		Faction1:         o.P1Faction,
		SelectedFaction0: o.P0Selected,
		SelectedFaction1: o.P1Selected,
		MapUID:           o.MapUID,
		MapTitle:         o.MapTitle,
	}
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

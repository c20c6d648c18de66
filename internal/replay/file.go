package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vytor/hvladder/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	outcomeWon  = "won"
	outcomeLost = "lost"
)

// resultFile is the metadata extracted from one replay.
type resultFile struct {
	Filename  string        `yaml:"filename"`
	StartTime time.Time     `yaml:"start_time"`
	EndTime   time.Time     `yaml:"end_time"`
	MapUID    string        `yaml:"map_uid"`
	MapTitle  string        `yaml:"map_title"`
	Players   []playerEntry `yaml:"players"`
}

type playerEntry struct {
	Fingerprint     string `yaml:"fingerprint"`
	Faction         string `yaml:"faction"`
	SelectedFaction string `yaml:"selected_faction"`
	Outcome         string `yaml:"outcome"`
}

// entry is a parsed file waiting for its fingerprints to be resolved.
type entry struct {
	path   string
	result models.MatchResult
	skip   string
}

// ParseFile reads one result file. Results that are not a decisive 1v1 game
// come back with a non-empty skip reason.
func ParseFile(path string) (models.MatchResult, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.MatchResult{}, "", err
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes a result document. defaultName is used when the document
// carries no filename of its own.
func Parse(data []byte, defaultName string) (models.MatchResult, string, error) {
	var f resultFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return models.MatchResult{}, "", fmt.Errorf("decode result: %w", err)
	}
	if f.StartTime.IsZero() {
		return models.MatchResult{}, "", fmt.Errorf("decode result: missing start_time")
	}
	if f.Filename == "" {
		f.Filename = defaultName
	}

	res := models.MatchResult{
		Filename:  f.Filename,
		StartTime: f.StartTime.UTC(),
		EndTime:   f.EndTime.UTC(),
		MapUID:    f.MapUID,
		MapTitle:  f.MapTitle,
	}
	if res.EndTime.IsZero() {
		res.EndTime = res.StartTime
	}

	if len(f.Players) != 2 {
		return res, fmt.Sprintf("%d players", len(f.Players)), nil
	}

	var winner, loser *playerEntry
	for i := range f.Players {
		p := &f.Players[i]
		switch strings.ToLower(p.Outcome) {
		case outcomeWon:
			winner = p
		case outcomeLost:
			loser = p
		}
	}
	if winner == nil || loser == nil {
		return res, "no decisive outcome", nil
	}
	if winner.Fingerprint == "" || loser.Fingerprint == "" {
		return res, "anonymous player", nil
	}
	if winner.Fingerprint == loser.Fingerprint {
		return res, "self play", nil
	}

	res.Player0 = participant(winner)
	res.Player1 = participant(loser)
	return res, "", nil
}

func participant(p *playerEntry) models.Participant {
	return models.Participant{
		Fingerprint:     p.Fingerprint,
		Faction:         p.Faction,
		SelectedFaction: p.SelectedFaction,
	}
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/hvladder/internal/config"
)

func TestParseFlags(t *testing.T) {
	cfg := config.Config{DBPath: "db.sqlite3", Ranking: "elo"}

	err := parseFlags(&cfg, []string{"-d", "ladder.sqlite3", "--ranking", "trueskill", "-p", "2m", "--start", "2024-01-01", "replays/", "extra.yml"})
	require.NoError(t, err)

	assert.Equal(t, "ladder.sqlite3", cfg.DBPath)
	assert.Equal(t, "trueskill", cfg.Ranking)
	assert.Equal(t, "2m", cfg.Period)
	assert.Equal(t, "2024-01-01", cfg.Start)
	assert.Equal(t, []string{"replays/", "extra.yml"}, cfg.ResultPaths)
}

func TestParseFlags_Unknown(t *testing.T) {
	cfg := config.Config{}
	assert.Error(t, parseFlags(&cfg, []string{"--nope"}))
}

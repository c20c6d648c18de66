package repository

import (
	"context"

	"github.com/vytor/hvladder/internal/models"
)

// AccountRepository reads the fingerprint cache of a store
type AccountRepository interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// PlayerRepository reads the players table of a snapshot
type PlayerRepository interface {
	ListPlayers(ctx context.Context) ([]models.PlayerRow, error)
}

// OutcomeRepository reads the outcomes table of a snapshot
type OutcomeRepository interface {
	ListOutcomes(ctx context.Context) ([]models.OutcomeRow, error)
}

// SnapshotRepository handles one store file. ReplaceSnapshot clears players
// and outcomes, grows the accounts cache (insert if absent) and writes the new
// rows, all in one transaction.
type SnapshotRepository interface {
	AccountRepository
	PlayerRepository
	OutcomeRepository
	ReplaceSnapshot(ctx context.Context, snap models.Snapshot) error
	Close() error
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/repository"
)

var (
	accountColumns = []string{"fingerprint", "profile_id", "profile_name", "avatar_url"}
	playerColumns  = []string{
		"profile_id", "profile_name", "avatar_url", "banned", "wins", "losses", "prv_rating", "rating",
	}
	outcomeColumns = []string{
		"hash", "date_start", "date_end", "filename", "profile_id0", "profile_id1",
		"prv_rating0", "prv_rating1", "rating0", "rating1", "faction0", "faction1",
		"selected_faction0", "selected_faction1", "map_uid", "map_title",
	}
)

// Accounts only grow and outcomes are keyed by content hash, so both skip rows
// already present. Players are unique per run and a clash fails the rebuild.
func insertOrIgnore(table string, columns []string) squirrel.InsertBuilder {
	return sqlBuilder.Insert(table).Options("OR IGNORE").Columns(columns...)
}

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository implementation
func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Close() error {
	return r.db.Close()
}

func (r *snapshotRepository) ReplaceSnapshot(ctx context.Context, snap models.Snapshot) error {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("replacing snapshot: accounts=%d, players=%d, outcomes=%d",
		len(snap.Accounts), len(snap.Players), len(snap.Outcomes))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		// outcomes first, they reference players
		if _, err := tx.ExecContext(ctx, `DELETE FROM outcomes`); err != nil {
			log.Error("failed to clear outcomes: %v", err)
			return fmt.Errorf("clear outcomes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
			log.Error("failed to clear players: %v", err)
			return fmt.Errorf("clear players: %w", err)
		}

		err := insertBatches(ctx, tx, insertOrIgnore("accounts", accountColumns), len(snap.Accounts), func(i int) []interface{} {
			a := snap.Accounts[i]
			return []interface{}{a.Fingerprint, a.ProfileID, a.Name, a.AvatarURL}
		})
		if err != nil {
			log.Error("failed to insert accounts: %v", err)
			return fmt.Errorf("insert accounts: %w", err)
		}

		err = insertBatches(ctx, tx, sqlBuilder.Insert("players").Columns(playerColumns...), len(snap.Players), func(i int) []interface{} {
			p := snap.Players[i]
			return []interface{}{p.ProfileID, p.Name, p.AvatarURL, p.Banned, p.Wins, p.Losses, p.PrvRating, p.Rating}
		})
		if err != nil {
			log.Error("failed to insert players: %v", err)
			return fmt.Errorf("insert players: %w", err)
		}

		err = insertBatches(ctx, tx, insertOrIgnore("outcomes", outcomeColumns), len(snap.Outcomes), func(i int) []interface{} {
			o := snap.Outcomes[i]
			return []interface{}{
				o.Hash, o.DateStart, o.DateEnd, o.Filename, o.ProfileID0, o.ProfileID1,
				o.PrvRating0, o.PrvRating1, o.Rating0, o.Rating1, o.Faction0, o.Faction1,
				o.SelectedFaction0, o.SelectedFaction1, o.MapUID, o.MapTitle,
			}
		})
		if err != nil {
			log.Error("failed to insert outcomes: %v", err)
			return fmt.Errorf("insert outcomes: %w", err)
		}

		log.Debug("snapshot written")
		return nil
	})
}

func (r *snapshotRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	query, args, err := sqlBuilder.Select(accountColumns...).From("accounts").OrderBy("fingerprint").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list accounts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Fingerprint, &a.ProfileID, &a.Name, &a.AvatarURL); err != nil {
			log.Error("failed to scan account row: %v", err)
			return nil, err
		}
		accounts = append(accounts, a)
	}

	log.Debug("found %d cached accounts", len(accounts))
	return accounts, rows.Err()
}

func (r *snapshotRepository) ListPlayers(ctx context.Context) ([]models.PlayerRow, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	query, args, err := sqlBuilder.Select(playerColumns...).From("players").OrderBy("profile_id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var players []models.PlayerRow
	for rows.Next() {
		var p models.PlayerRow
		if err := rows.Scan(&p.ProfileID, &p.Name, &p.AvatarURL, &p.Banned, &p.Wins, &p.Losses, &p.PrvRating, &p.Rating); err != nil {
			log.Error("failed to scan player row: %v", err)
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *snapshotRepository) ListOutcomes(ctx context.Context) ([]models.OutcomeRow, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	query, args, err := sqlBuilder.Select(outcomeColumns...).From("outcomes").OrderBy("date_start", "hash").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list outcomes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.OutcomeRow
	for rows.Next() {
		var o models.OutcomeRow
		if err := rows.Scan(
			&o.Hash, &o.DateStart, &o.DateEnd, &o.Filename, &o.ProfileID0, &o.ProfileID1,
			&o.PrvRating0, &o.PrvRating1, &o.Rating0, &o.Rating1, &o.Faction0, &o.Faction1,
			&o.SelectedFaction0, &o.SelectedFaction1, &o.MapUID, &o.MapTitle,
		); err != nil {
			log.Error("failed to scan outcome row: %v", err)
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

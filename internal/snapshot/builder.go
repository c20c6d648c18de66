// Package snapshot rebuilds the players and outcomes of one store for one period.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/directory"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/lock"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/outcome"
	"github.com/vytor/hvladder/internal/ranking"
	"github.com/vytor/hvladder/internal/repository"
)

// ResultSource yields the match results of a period. Fingerprints are resolved
// through cache, which grows as a side effect.
type ResultSource interface {
	Load(ctx context.Context, cache *accounts.Cache, period models.Period) ([]models.MatchResult, error)
}

// BanSource yields the banned profile ids.
type BanSource interface {
	Banned(ctx context.Context) (map[int64]bool, error)
}

// StoreOpener opens (creating and migrating if needed) a store file.
type StoreOpener func(ctx context.Context, path string) (repository.SnapshotRepository, error)

// Options selects what one Build computes.
type Options struct {
	Algorithm string
	Period    models.Period
	// SeedFrom, when set, is copied over the store before it is opened.
	SeedFrom string
}

// Summary describes a finished build.
type Summary struct {
	RunID       string
	Store       string
	Period      models.Period
	Algorithm   string
	Results     int
	Players     int
	Outcomes    int
	NewAccounts int
	Banned      int
	Duration    time.Duration
}

type Builder struct {
	results     ResultSource
	bans        BanSource
	resolver    accounts.Resolver
	open        StoreOpener
	lockTimeout time.Duration
}

// NewBuilder wires a builder. bans and resolver may be nil.
func NewBuilder(results ResultSource, bans BanSource, resolver accounts.Resolver, open StoreOpener, lockTimeout time.Duration) *Builder {
	return &Builder{
		results:     results,
		bans:        bans,
		resolver:    resolver,
		open:        open,
		lockTimeout: lockTimeout,
	}
}

// Build rebuilds storePath for opts.Period. The store's lock is held for the
// whole run and released whatever the outcome; nothing is committed unless
// every step succeeds.
func (b *Builder) Build(ctx context.Context, storePath string, opts Options) (*Summary, error) {
	started := time.Now()

	algo, err := ranking.New(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		RunID:     uuid.NewString(),
		Store:     storePath,
		Period:    opts.Period,
		Algorithm: algo.Name(),
	}
	log := logger.FromContext(ctx).WithPrefix("snapshot").WithFields(map[string]any{
		"run_id": sum.RunID,
		"store":  storePath,
	})
	ctx = logger.NewContext(ctx, log)

	log.Info("building %s with %s for %s [%s, %s)", storePath, algo.Name(), opts.Period.Name,
		opts.Period.Start.Format(time.DateOnly), opts.Period.End.Format(time.DateOnly))

	lk, err := lock.Acquire(ctx, storePath, b.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			log.Warn("failed to release lock: %v", err)
		}
	}()

	if opts.SeedFrom != "" && opts.SeedFrom != storePath {
		if err := copySeed(ctx, opts.SeedFrom, storePath); err != nil {
			return nil, apperrors.NewStorageError("seed "+storePath, err)
		}
	}

	repo, err := b.open(ctx, storePath)
	if err != nil {
		return nil, apperrors.NewStorageError("open "+storePath, err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warn("failed to close store: %v", err)
		}
	}()

	seed, err := repo.ListAccounts(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("read accounts", err)
	}
	cache := accounts.NewCache(seed, b.resolver)
	log.Debug("loaded %d cached accounts", len(seed))

	results, err := b.results.Load(ctx, cache, opts.Period)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	results = dropSelfPlay(inPeriod(results, opts.Period), cache, log)
	sum.Results = len(results)

	dir := directory.New(cache, algo.DefaultRating).WithLogger(log)
	outcomes, err := apply(algo, dir, results)
	if err != nil {
		return nil, err
	}

	var banned map[int64]bool
	if b.bans != nil {
		if banned, err = b.bans.Banned(ctx); err != nil {
			return nil, fmt.Errorf("load bans: %w", err)
		}
	}

	players := dir.Players()
	snap := models.Snapshot{
		Accounts: cache.Resolved(),
		Players:  make([]models.PlayerRow, 0, len(players)),
		Outcomes: outcomes,
	}
	for _, p := range players {
		if banned[p.ProfileID] {
			p.Banned = true
			sum.Banned++
		}
		snap.Players = append(snap.Players, p.Row())
	}

	if err := repo.ReplaceSnapshot(ctx, snap); err != nil {
		return nil, apperrors.NewStorageError("write snapshot", err)
	}

	sum.Players = len(snap.Players)
	sum.Outcomes = len(snap.Outcomes)
	sum.NewAccounts = len(cache.Discovered())
	sum.Duration = time.Since(started)
	log.Info("wrote %d players and %d outcomes (%d new accounts, %d banned) in %s",
		sum.Players, sum.Outcomes, sum.NewAccounts, sum.Banned, sum.Duration.Round(time.Millisecond))
	return sum, nil
}

// inPeriod keeps the results starting inside p, ordered by start time.
func inPeriod(results []models.MatchResult, p models.Period) []models.MatchResult {
	kept := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if p.Contains(r.StartTime) {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime.Before(kept[j].StartTime)
	})
	return kept
}

// dropSelfPlay removes results whose two fingerprints belong to the same
// profile. Algorithms reject such a pair.
func dropSelfPlay(results []models.MatchResult, ids directory.Identities, log *logger.Logger) []models.MatchResult {
	kept := results[:0]
	for _, r := range results {
		id0, ok0 := ids.Get(r.Player0.Fingerprint)
		id1, ok1 := ids.Get(r.Player1.Fingerprint)
		if ok0 && ok1 && id0.ProfileID == id1.ProfileID {
			log.Warn("skipping %s: both players are profile %d", r.Filename, id0.ProfileID)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// apply runs the algorithm over results, then folds each rating pair and the
// win/loss tally into the player records, recording one outcome per result.
func apply(algo ranking.Algorithm, dir *directory.Directory, results []models.MatchResult) ([]models.OutcomeRow, error) {
	pairs, err := algo.ComputeRatings(results, dir)
	if err != nil {
		return nil, fmt.Errorf("compute %s ratings: %w", algo.Name(), err)
	}
	if len(pairs) != len(results) {
		return nil, apperrors.NewInternalError(
			fmt.Errorf("%s returned %d ratings for %d results", algo.Name(), len(pairs), len(results)))
	}

	rows := make([]models.OutcomeRow, 0, len(results))
	for i, res := range results {
		p0, err := dir.Resolve(res.Player0)
		if err != nil {
			return nil, err
		}
		p1, err := dir.Resolve(res.Player1)
		if err != nil {
			return nil, err
		}
		p0.UpdateRating(pairs[i].P0)
		p1.UpdateRating(pairs[i].P1)
		p0.Wins++
		p1.Losses++
		rows = append(rows, outcome.Row(outcome.Build(res, p0, p1)))
	}
	return rows, nil
}

// Package season builds one store per two-month season of a year, each seeded
// with the accounts of the season before it.
package season

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
	"github.com/vytor/hvladder/internal/period"
	"github.com/vytor/hvladder/internal/ranking"
	"github.com/vytor/hvladder/internal/snapshot"
)

// DefaultExt is the extension of season store files.
const DefaultExt = ".sqlite3"

// Builder rebuilds one store.
type Builder interface {
	Build(ctx context.Context, storePath string, opts snapshot.Options) (*snapshot.Summary, error)
}

// Options describes one batch.
type Options struct {
	Algorithm  string
	OutputDir  string
	Prefix     string
	Mod        string
	Ext        string
	Year       int
	StartMonth int
}

// Result is the outcome of one season. Err is nil when the store was built.
type Result struct {
	Season  int
	Period  models.Period
	Store   string
	Seed    string
	Summary *snapshot.Summary
	Err     error
}

type Driver struct {
	builder Builder
	clock   period.Clock
}

func NewDriver(builder Builder, clock period.Clock) *Driver {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &Driver{builder: builder, clock: clock}
}

// StoreName returns the file name of a season store, e.g. db-hv-2024-3.sqlite3.
func StoreName(prefix, mod string, year, season int, ext string) string {
	return fmt.Sprintf("%s-%s-%d-%d%s", prefix, mod, year, season, ext)
}

// Run builds the seasons of opts.Year from the season containing
// opts.StartMonth up to the last one that has started, never past December.
//
// A season that fails is logged and skipped; later seasons are seeded from the
// last store that was built and the failed file is left as it was. The joined
// per-season errors are returned with the results. Configuration errors stop
// the batch before any store is touched.
func (d *Driver) Run(ctx context.Context, opts Options) ([]Result, error) {
	log := logger.FromContext(ctx).WithPrefix("season")

	if opts.StartMonth < 1 || opts.StartMonth > 12 {
		return nil, apperrors.NewValidationError("start month", fmt.Sprintf("%d is not between 1 and 12", opts.StartMonth))
	}
	if _, err := ranking.New(opts.Algorithm); err != nil {
		return nil, err
	}
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}

	today := period.Date(d.clock.Now())
	p := period.Season(opts.Year, time.Month(opts.StartMonth))
	if time.Month(opts.StartMonth) != p.Start.Month() {
		log.Info("start month %d corrected to %d", opts.StartMonth, int(p.Start.Month()))
	}

	var (
		results []Result
		errs    []error
		seed    string
	)
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		n := period.SeasonNumber(p.Start.Month())
		store := filepath.Join(opts.OutputDir, StoreName(opts.Prefix, opts.Mod, p.Start.Year(), n, opts.Ext))
		res := Result{Season: n, Period: p, Store: store, Seed: seed}

		res.Summary, res.Err = d.builder.Build(ctx, store, snapshot.Options{
			Algorithm: opts.Algorithm,
			Period:    p,
			SeedFrom:  seed,
		})
		switch {
		case res.Err == nil:
			log.Info("created %s for %s to %s", store, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
			seed = store
		case errors.Is(res.Err, apperrors.ErrConfiguration):
			return append(results, res), res.Err
		default:
			log.Error("season %d: %v", n, res.Err)
			errs = append(errs, fmt.Errorf("season %d (%s): %w", n, store, res.Err))
		}
		results = append(results, res)

		next := period.Season(p.End.Year(), p.End.Month())
		if next.Start.Month() == time.January || next.Start.After(today) {
			break
		}
		p = next
	}

	return results, errors.Join(errs...)
}

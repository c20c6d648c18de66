// Command ladder-seasons builds one store per two-month season of a year.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vytor/hvladder/internal/app"
	"github.com/vytor/hvladder/internal/config"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/season"
	"go.uber.org/fx"
)

const defaultRanking = "openskill"

func main() {
	cfg := config.Load()
	if os.Getenv("RANKING") == "" {
		cfg.Ranking = defaultRanking
	}
	if err := parseFlags(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(apperrors.ExitOK)
		}
		os.Exit(apperrors.ExitConfiguration)
	}
	if err := cfg.ValidateSeasons(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitConfiguration)
	}

	var runErr error
	a := fx.New(
		fx.Supply(cfg),
		app.Module,
		fx.NopLogger,
		fx.Invoke(func(log *logger.Logger, d *season.Driver) {
			runErr = run(logger.NewContext(context.Background(), log), cfg, d)
		}),
	)
	if err := a.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitInternal)
	}
	if runErr != nil {
		logger.Error("%v", runErr)
	}
	os.Exit(apperrors.ExitCodeFor(runErr))
}

func run(ctx context.Context, cfg config.Config, d *season.Driver) error {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return apperrors.NewStorageError("create "+cfg.OutputDir, err)
	}

	results, err := d.Run(ctx, season.Options{
		Algorithm:  cfg.Ranking,
		OutputDir:  cfg.OutputDir,
		Prefix:     cfg.Prefix,
		Mod:        cfg.Mod,
		Year:       cfg.Year,
		StartMonth: cfg.StartMonth,
	})

	built := 0
	for _, r := range results {
		if r.Err == nil {
			built++
		}
	}
	log.Info("built %d of %d season stores", built, len(results))
	return err
}

func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ladder-seasons", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ladder-seasons [flags] [result files or directories...]\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Ranking, "r", cfg.Ranking, "ranking system (shorthand)")
	fs.StringVar(&cfg.Ranking, "ranking", cfg.Ranking, "ranking system: elo, trueskill or openskill")
	fs.StringVar(&cfg.BansFile, "bans-file", cfg.BansFile, "YAML list of banned profile ids")
	fs.StringVar(&cfg.Mod, "m", cfg.Mod, "mod name (shorthand)")
	fs.StringVar(&cfg.Mod, "mod", cfg.Mod, "mod name used in store file names")
	fs.IntVar(&cfg.Year, "y", cfg.Year, "year (shorthand)")
	fs.IntVar(&cfg.Year, "year", cfg.Year, "year to build")
	fs.IntVar(&cfg.StartMonth, "start-month", cfg.StartMonth, "first month, 1 to 12; even months start with the month before")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory (shorthand)")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory receiving the store files")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (shorthand)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: DEBUG, INFO, WARNING, ERROR")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		cfg.ResultPaths = fs.Args()
	}
	return nil
}

// Command ladder rebuilds the players and outcomes of one store for one period.
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
	"github.com/vytor/hvladder/internal/period"
	"github.com/vytor/hvladder/internal/snapshot"
	"go.uber.org/fx"
)

func main() {
	cfg := config.Load()
	if err := parseFlags(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(apperrors.ExitOK)
		}
		os.Exit(apperrors.ExitConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitConfiguration)
	}

	var runErr error
	a := fx.New(
		fx.Supply(cfg),
		app.Module,
		fx.NopLogger,
		fx.Invoke(func(log *logger.Logger, periods *period.Resolver, b *snapshot.Builder) {
			runErr = run(logger.NewContext(context.Background(), log), cfg, periods, b)
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

func run(ctx context.Context, cfg config.Config, periods *period.Resolver, b *snapshot.Builder) error {
	p, err := periods.Resolve(cfg.Period, cfg.Start, cfg.End)
	if err != nil {
		return err
	}
	_, err = b.Build(ctx, cfg.DBPath, snapshot.Options{Algorithm: cfg.Ranking, Period: p})
	return err
}

func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ladder", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ladder [flags] [result files or directories...]\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "store file (shorthand)")
	fs.StringVar(&cfg.DBPath, "database", cfg.DBPath, "store file")
	fs.StringVar(&cfg.Ranking, "r", cfg.Ranking, "ranking system (shorthand)")
	fs.StringVar(&cfg.Ranking, "ranking", cfg.Ranking, "ranking system: elo, trueskill or openskill")
	fs.StringVar(&cfg.Period, "p", cfg.Period, "period shorthand (shorthand)")
	fs.StringVar(&cfg.Period, "period", cfg.Period, "period shorthand: 1m, 2m, anything else for all time")
	fs.StringVar(&cfg.Start, "start", cfg.Start, "first day of the period (YYYY-MM-DD)")
	fs.StringVar(&cfg.End, "end", cfg.End, "day after the period (YYYY-MM-DD), default tomorrow")
	fs.StringVar(&cfg.BansFile, "bans-file", cfg.BansFile, "YAML list of banned profile ids")
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

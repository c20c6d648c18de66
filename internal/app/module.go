// Package app wires the ladder components for the command line tools.
package app

import (
	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/bans"
	"github.com/vytor/hvladder/internal/config"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/period"
	"github.com/vytor/hvladder/internal/replay"
	"github.com/vytor/hvladder/internal/repository/sqlite"
	"github.com/vytor/hvladder/internal/season"
	"github.com/vytor/hvladder/internal/snapshot"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewLogger),
	fx.Provide(NewClock),
	fx.Provide(period.NewResolver),
	// collaborators
	fx.Provide(NewAccountResolver),
	fx.Provide(NewResultSource),
	fx.Provide(NewBanSource),
	fx.Provide(NewStoreOpener),
	// core
	fx.Provide(NewBuilder),
	fx.Provide(NewDriver),
)

// NewLogger builds the process logger from the configured level and makes it
// the default.
func NewLogger(cfg config.Config) *logger.Logger {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)
	return log
}

func NewClock() period.Clock {
	return period.SystemClock{}
}

func NewAccountResolver(cfg config.Config, log *logger.Logger) accounts.Resolver {
	if cfg.Offline() {
		log.Info("account service disabled, only cached accounts resolve")
		return accounts.StaticResolver{}
	}
	return accounts.NewHTTPResolver(cfg.AccountServiceURL, cfg.AccountTimeout)
}

func NewResultSource(cfg config.Config) snapshot.ResultSource {
	return replay.NewSource(cfg.ResultPaths, cfg.ParseWorkers)
}

func NewBanSource(cfg config.Config) snapshot.BanSource {
	return bans.NewFile(cfg.BansFile)
}

func NewStoreOpener() snapshot.StoreOpener {
	return sqlite.Open
}

func NewBuilder(cfg config.Config, results snapshot.ResultSource, banned snapshot.BanSource, resolver accounts.Resolver, open snapshot.StoreOpener) *snapshot.Builder {
	return snapshot.NewBuilder(results, banned, resolver, open, cfg.LockTimeout)
}

func NewDriver(b *snapshot.Builder, clock period.Clock) *season.Driver {
	return season.NewDriver(b, clock)
}

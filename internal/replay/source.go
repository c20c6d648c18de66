package replay

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
	"golang.org/x/sync/errgroup"
)

// Source loads match results from result files on disk.
type Source struct {
	paths   []string
	workers int
}

// NewSource reads the given files and directories. Directories are walked
// recursively for *.yml and *.yaml files.
func NewSource(paths []string, workers int) *Source {
	if workers < 1 {
		workers = 1
	}
	return &Source{paths: paths, workers: workers}
}

// Load parses every result file, resolves both players through cache and
// keeps the decisive games starting inside period, ordered by start time.
func (s *Source) Load(ctx context.Context, cache *accounts.Cache, period models.Period) ([]models.MatchResult, error) {
	log := logger.FromContext(ctx).WithPrefix("replay")

	files, err := s.files()
	if err != nil {
		return nil, err
	}
	log.Debug("found %d result files", len(files))

	entries := make([]entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, skip, err := ParseFile(path)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			entries[i] = entry{path: path, result: res, skip: skip}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to parse results: %v", err)
		return nil, err
	}

	// The cache is not safe for concurrent use, resolve in file order.
	results := make([]models.MatchResult, 0, len(entries))
	for _, e := range entries {
		if e.skip != "" {
			log.Debug("skipping %s: %s", e.path, e.skip)
			continue
		}
		if !period.Contains(e.result.StartTime) {
			continue
		}

		p0, err := cache.Lookup(ctx, e.result.Player0.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("resolve players of %s: %w", e.path, err)
		}
		p1, err := cache.Lookup(ctx, e.result.Player1.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("resolve players of %s: %w", e.path, err)
		}
		if p0 == nil || p1 == nil {
			log.Debug("skipping %s: unregistered player", e.path)
			continue
		}
		if p0.ProfileID == p1.ProfileID {
			log.Debug("skipping %s: same account on both sides", e.path)
			continue
		}
		results = append(results, e.result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].StartTime.Equal(results[j].StartTime) {
			return results[i].StartTime.Before(results[j].StartTime)
		}
		return results[i].Filename < results[j].Filename
	})

	log.Info("loaded %d results for period %s", len(results), period.Name)
	return results, nil
}

func (s *Source) files() ([]string, error) {
	var files []string
	for _, root := range s.paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isResultFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isResultFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

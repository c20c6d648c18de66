package sqlite

import (
	"context"

	"github.com/vytor/hvladder/internal/db"
	"github.com/vytor/hvladder/internal/repository"
)

// Open opens the store file at path, migrating it if needed.
func Open(ctx context.Context, path string) (repository.SnapshotRepository, error) {
	d, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSnapshotRepository(d.DB), nil
}

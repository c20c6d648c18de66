package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/lock"
)

func TestAcquire_Contention(t *testing.T) {
	ctx := context.Background()
	store := filepath.Join(t.TempDir(), "db.sqlite3")

	held, err := lock.Acquire(ctx, store, time.Second)
	require.NoError(t, err)

	start := time.Now()
	_, err = lock.Acquire(ctx, store, 150*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrContention))
	assert.Equal(t, apperrors.ExitContention, apperrors.ExitCodeFor(err))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond, "should wait before giving up")
	assert.Contains(t, err.Error(), lock.PathFor(store))

	require.NoError(t, held.Release())

	again, err := lock.Acquire(ctx, store, 150*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestRelease_Idempotent(t *testing.T) {
	l, err := lock.Acquire(context.Background(), filepath.Join(t.TempDir(), "db"), time.Second)
	require.NoError(t, err)

	assert.NoError(t, l.Release())
	assert.NoError(t, l.Release())

	var nilLock *lock.Lock
	assert.NoError(t, nilLock.Release())
}

func TestAcquire_DifferentStoresDoNotContend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := lock.Acquire(ctx, filepath.Join(dir, "a.sqlite3"), time.Second)
	require.NoError(t, err)
	defer a.Release()

	b, err := lock.Acquire(ctx, filepath.Join(dir, "b.sqlite3"), time.Second)
	require.NoError(t, err)
	defer b.Release()
}

func TestAcquire_MissingDirectory(t *testing.T) {
	_, err := lock.Acquire(context.Background(), filepath.Join(t.TempDir(), "nope", "db"), 100*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

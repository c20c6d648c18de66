package lock

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/flock"
	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/logger"
)

const retryDelay = 50 * time.Millisecond

// Suffix is appended to a store path to name its lock file.
const Suffix = ".lock"

// Lock is an exclusive advisory lock on one store file.
type Lock struct {
	fl *flock.Flock
}

// PathFor returns the lock file guarding storePath.
func PathFor(storePath string) string {
	return storePath + Suffix
}

// Acquire takes the lock for storePath, waiting at most timeout. Failing to get
// it in time is a contention error.
func Acquire(ctx context.Context, storePath string, timeout time.Duration) (*Lock, error) {
	log := logger.FromContext(ctx).WithPrefix("lock")
	path := PathFor(storePath)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, retryDelay)
	switch {
	case errors.Is(err, context.Canceled):
		return nil, err
	case err != nil && !errors.Is(err, context.DeadlineExceeded):
		log.Error("failed to lock %s: %v", path, err)
		return nil, apperrors.NewStorageError("lock "+path, err)
	case !ok:
		log.Warn("lock %s not acquired within %s", path, timeout)
		return nil, apperrors.NewContentionError(path, err)
	}

	log.Debug("acquired %s", path)
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Calling it more than once is harmless.
func (l *Lock) Release() error {
	if l == nil || !l.fl.Locked() {
		return nil
	}
	return l.fl.Unlock()
}

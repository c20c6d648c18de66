package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/vytor/hvladder/internal/errors"
)

func TestAppError_Is(t *testing.T) {
	err := apperrors.NewContentionError("db.sqlite3.lock", stderrors.New("timeout"))
	wrapped := fmt.Errorf("season 2: %w", err)

	assert.True(t, stderrors.Is(wrapped, apperrors.ErrContention))
	assert.False(t, stderrors.Is(wrapped, apperrors.ErrStorage))
	assert.Contains(t, err.Error(), "db.sqlite3.lock")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := apperrors.NewStorageError("write snapshot", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "STORAGE_ERROR: write snapshot (disk full)", err.Error())
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: apperrors.ExitOK},
		{name: "plain", err: stderrors.New("boom"), want: apperrors.ExitInternal},
		{name: "configuration", err: apperrors.NewConfigurationError("unknown ranking"), want: apperrors.ExitConfiguration},
		{name: "wrapped contention", err: fmt.Errorf("x: %w", apperrors.NewContentionError("a.lock", nil)), want: apperrors.ExitContention},
		{name: "storage", err: apperrors.NewStorageError("commit", nil), want: apperrors.ExitStorage},
		{name: "joined", err: stderrors.Join(stderrors.New("a"), apperrors.NewStorageError("b", nil)), want: apperrors.ExitStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.ExitCodeFor(tt.err))
		})
	}
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/hvladder/internal/models"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockSnapshotRepository) ListPlayers(ctx context.Context) ([]models.PlayerRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerRow), args.Error(1)
}

func (m *MockSnapshotRepository) ListOutcomes(ctx context.Context) ([]models.OutcomeRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OutcomeRow), args.Error(1)
}

func (m *MockSnapshotRepository) ReplaceSnapshot(ctx context.Context, snap models.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

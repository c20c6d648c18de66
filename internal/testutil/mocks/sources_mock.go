package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/hvladder/internal/accounts"
	"github.com/vytor/hvladder/internal/models"
)

// MockResultSource is a mock implementation of snapshot.ResultSource
type MockResultSource struct {
	mock.Mock
}

func (m *MockResultSource) Load(ctx context.Context, cache *accounts.Cache, period models.Period) ([]models.MatchResult, error) {
	args := m.Called(ctx, cache, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchResult), args.Error(1)
}

// MockBanSource is a mock implementation of snapshot.BanSource
type MockBanSource struct {
	mock.Mock
}

func (m *MockBanSource) Banned(ctx context.Context) (map[int64]bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/hvladder/internal/models"
)

// MockResolver is a mock implementation of accounts.Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, fingerprint string) (*models.Identity, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

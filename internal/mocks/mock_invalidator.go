package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCacheInvalidator struct {
	mock.Mock
}

func (m *MockCacheInvalidator) Invalidate(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/metinatakli/storefront/internal/domain"
)

type MockPaymentProvider struct {
	mock.Mock
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest,
) (*domain.CheckoutSession, error) {

	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) VerifyWebhookSignature(payload []byte, signature string) (*domain.WebhookEvent, error) {
	args := m.Called(payload, signature)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WebhookEvent), args.Error(1)
}

func (m *MockPaymentProvider) ListProducts(ctx context.Context, limit int64) ([]domain.Product, error) {
	args := m.Called(ctx, limit)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Product), args.Error(1)
}

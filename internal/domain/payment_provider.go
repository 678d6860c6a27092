package domain

import "context"

// PaymentProvider is the capability surface of the external payment platform.
// Implementations are constructed explicitly with their credentials and
// injected, so tests can substitute a fake.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	VerifyWebhookSignature(payload []byte, signature string) (*WebhookEvent, error)
	ListProducts(ctx context.Context, limit int64) ([]Product, error)
}

// CacheInvalidator receives invalidation signals for read-side views affected
// by a webhook event, scoped to a resource path such as "orders" or
// "customers/<id>".
type CacheInvalidator interface {
	Invalidate(ctx context.Context, scope string) error
}

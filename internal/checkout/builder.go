// Package checkout translates carts and subscription intents into
// provider-agnostic checkout requests, injecting the transaction fee as a
// distinguished line item.
package checkout

import (
	"context"
	"strings"

	"github.com/metinatakli/storefront/internal/domain"
)

// Builder constructs checkout requests and asks the injected payment provider
// to create the hosted session. It never retries: checkout creation is a
// user-initiated action and is idempotent when the user retries.
type Builder struct {
	provider domain.PaymentProvider
}

func NewBuilder(provider domain.PaymentProvider) *Builder {
	return &Builder{provider: provider}
}

// OneTimeCheckout builds a payment-mode session from the given cart items and
// returns the provider's redirect URL and session id.
func (b *Builder) OneTimeCheckout(ctx context.Context, items []domain.CartItem, customerID string) (*domain.CheckoutSession, error) {
	req, err := BuildOneTimeRequest(items, customerID)
	if err != nil {
		return nil, err
	}

	return b.create(ctx, req)
}

// SubscriptionCheckout builds a subscription-mode session for the given
// product and provider-managed price.
func (b *Builder) SubscriptionCheckout(
	ctx context.Context,
	product domain.SubscriptionProduct,
	priceID string,
	customerID string,
) (*domain.CheckoutSession, error) {

	req, err := BuildSubscriptionRequest(product, priceID, customerID)
	if err != nil {
		return nil, err
	}

	return b.create(ctx, req)
}

func (b *Builder) create(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	session, err := b.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, &domain.SessionCreationError{Err: err}
	}

	return session, nil
}

// BuildOneTimeRequest maps each cart item 1:1 to a checkout line item and
// appends the fee line item computed from the cart subtotal. Computing the
// fee once from the subtotal avoids double rounding over per-line fees.
func BuildOneTimeRequest(items []domain.CartItem, customerID string) (domain.CheckoutRequest, error) {
	if len(items) == 0 {
		return domain.CheckoutRequest{}, domain.ErrEmptyCart
	}

	lineItems := make([]domain.CheckoutLineItem, 0, len(items)+1)
	productIds := make([]string, 0, len(items))

	for _, item := range items {
		lineItems = append(lineItems, domain.CheckoutLineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitAmount:  item.UnitAmount,
			Quantity:    item.Quantity,
			Metadata: map[string]string{
				"productId": item.ID,
			},
		})

		productIds = append(productIds, item.ID)
	}

	fee, err := domain.ComputeFee(domain.Subtotal(items))
	if err != nil {
		return domain.CheckoutRequest{}, err
	}

	lineItems = append(lineItems, feeLineItem(fee))

	return domain.CheckoutRequest{
		LineItems:  lineItems,
		Mode:       domain.CheckoutModePayment,
		CustomerID: customerID,
		Metadata: map[string]string{
			"productIds": strings.Join(productIds, ","),
		},
	}, nil
}

// BuildSubscriptionRequest produces exactly two line items: the recurring
// provider-managed price and a one-time fee line item.
//
// The fee is 5% of the product's list price, not of the recurring amount: the
// actual billed amount is provider-managed and unknown at build time. This is
// a deliberate product decision, not an approximation of the recurring total.
func BuildSubscriptionRequest(product domain.SubscriptionProduct, priceID, customerID string) (domain.CheckoutRequest, error) {
	if product.ID == "" {
		return domain.CheckoutRequest{}, domain.ErrMissingProduct
	}

	if priceID == "" {
		return domain.CheckoutRequest{}, domain.ErrMissingPrice
	}

	fee, err := domain.ComputeFee(product.ListPrice)
	if err != nil {
		return domain.CheckoutRequest{}, err
	}

	lineItems := []domain.CheckoutLineItem{
		{
			PriceID:   priceID,
			Quantity:  1,
			Recurring: true,
		},
		feeLineItem(fee),
	}

	return domain.CheckoutRequest{
		LineItems:  lineItems,
		Mode:       domain.CheckoutModeSubscription,
		CustomerID: customerID,
		Metadata: map[string]string{
			"productId": product.ID,
		},
	}, nil
}

// feeLineItem is always appended after all product line items and is never
// merged into them.
func feeLineItem(fee int64) domain.CheckoutLineItem {
	return domain.CheckoutLineItem{
		Name:        domain.FeeLineItemName,
		Description: "One-time processing fee",
		UnitAmount:  fee,
		Quantity:    1,
	}
}

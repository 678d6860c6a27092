// Package payment implements the payment provider capability on top of
// Stripe. The provider is constructed with its own credentials and API client
// instead of relying on the package-level stripe.Key singleton, so it can be
// swapped for a fake in tests.
package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/metinatakli/storefront/internal/domain"
)

type StripePaymentProvider struct {
	api           *client.API
	webhookSecret string
	successUrl    string
	cancelUrl     string
}

func NewStripePaymentProvider(secretKey, webhookSecret, successUrl, cancelUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
		successUrl:    successUrl,
		cancelUrl:     cancelUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest,
) (*domain.CheckoutSession, error) {

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))

	for _, li := range req.LineItems {
		lineItems = append(lineItems, toStripeLineItem(li))
	}

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		LineItems:                lineItems,
		Mode:                     stripe.String(string(toStripeMode(req.Mode))),
		SuccessURL:               stripe.String(s.successUrl),
		CancelURL:                stripe.String(s.cancelUrl),
		Metadata:                 req.Metadata,
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		AllowPromotionCodes:      stripe.Bool(true),
	}

	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func toStripeLineItem(li domain.CheckoutLineItem) *stripe.CheckoutSessionLineItemParams {
	params := &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(li.Quantity),
	}

	// a provider-managed price carries its own amount and recurrence
	if li.PriceID != "" {
		params.Price = stripe.String(li.PriceID)
		return params
	}

	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(li.UnitAmount),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(li.Name),
			Metadata: li.Metadata,
		},
	}

	if li.Description != "" {
		priceData.ProductData.Description = stripe.String(li.Description)
	}

	params.PriceData = priceData

	return params
}

func toStripeMode(mode domain.CheckoutMode) stripe.CheckoutSessionMode {
	if mode == domain.CheckoutModeSubscription {
		return stripe.CheckoutSessionModeSubscription
	}

	return stripe.CheckoutSessionModePayment
}

// VerifyWebhookSignature checks the payload against the shared webhook secret
// and decodes the verified event. Verification failure is terminal for the
// delivery.
func (s *StripePaymentProvider) VerifyWebhookSignature(payload []byte, signature string) (*domain.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, err
	}

	return &domain.WebhookEvent{
		Kind:       domain.EventKind(event.Type),
		DeliveryID: event.ID,
		Payload:    event.Data.Raw,
	}, nil
}

// ListProducts is the thin read-side catalog proxy. It forwards to Stripe and
// projects the response; there is no caching or invariant here.
func (s *StripePaymentProvider) ListProducts(ctx context.Context, limit int64) ([]domain.Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)
	params.AddExpand("data.default_price")

	var products []domain.Product

	iter := s.api.Products.List(params)
	for iter.Next() {
		p := iter.Product()

		product := domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
		}

		if p.DefaultPrice != nil {
			product.UnitAmount = p.DefaultPrice.UnitAmount
			product.PriceID = p.DefaultPrice.ID
		}

		if len(p.Images) > 0 {
			product.Image = p.Images[0]
		}

		products = append(products, product)
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

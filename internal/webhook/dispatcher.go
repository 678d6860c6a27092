// Package webhook turns asynchronous provider notifications into idempotent,
// retry-safe application state transitions.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/metinatakli/storefront/internal/domain"
	"github.com/metinatakli/storefront/internal/mailer"
)

// Result is the structured outcome of a single delivery. Unknown event kinds
// are answered with Success true and Handled false: they are explicitly
// ignored, never failures.
type Result struct {
	Success         bool   `json:"success"`
	Handled         bool   `json:"handled"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	SubscriptionID  string `json:"subscriptionId,omitempty"`
}

// Dispatcher verifies inbound deliveries and routes each verified event to
// its handler. It processes exactly one event per invocation; the provider
// owns retries and at-least-once delivery, so handlers must be safely
// re-runnable. No delivery-id deduplication is kept.
type Dispatcher struct {
	provider    domain.PaymentProvider
	invalidator domain.CacheInvalidator
	mailer      mailer.Mailer
	logger      *slog.Logger
}

func NewDispatcher(
	provider domain.PaymentProvider,
	invalidator domain.CacheInvalidator,
	mailer mailer.Mailer,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		provider:    provider,
		invalidator: invalidator,
		mailer:      mailer,
		logger:      logger,
	}
}

// Dispatch moves a delivery through Unverified -> Verified -> Dispatched.
// A signature failure is terminal and fail-closed: no handler executes.
// Handler side-effect failures are surfaced so the boundary layer can answer
// with a retryable status.
func (d *Dispatcher) Dispatch(ctx context.Context, payload []byte, signature string) (Result, error) {
	event, err := d.provider.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return Result{}, &domain.SignatureVerificationError{Err: err}
	}

	result, err := d.route(ctx, event)
	if err != nil {
		return Result{}, &domain.HandlerSideEffectError{Kind: event.Kind, Err: err}
	}

	return result, nil
}

func (d *Dispatcher) route(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	switch event.Kind {
	case domain.EventPaymentSucceeded:
		return d.handlePaymentSucceeded(ctx, event)
	case domain.EventPaymentFailed:
		return d.handlePaymentFailed(ctx, event)
	case domain.EventSubscriptionCreated:
		return d.handleSubscriptionCreated(ctx, event)
	case domain.EventSubscriptionUpdated:
		return d.handleSubscriptionUpdated(ctx, event)
	case domain.EventSubscriptionDeleted:
		return d.handleSubscriptionDeleted(ctx, event)
	default:
		d.logger.Info("ignoring unhandled event kind", "kind", event.Kind, "delivery_id", event.DeliveryID)
		return Result{Success: true, Handled: false}, nil
	}
}

// paymentIntentPayload carries the fields the handlers care about; everything
// else in the provider payload is opaque. Customer and receipt email are
// optional, and a missing reference simply skips the matching side effect.
type paymentIntentPayload struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	ReceiptEmail string `json:"receipt_email"`
}

type subscriptionPayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

func (d *Dispatcher) handlePaymentSucceeded(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	var intent paymentIntentPayload
	if err := json.Unmarshal(event.Payload, &intent); err != nil {
		return Result{}, err
	}

	if err := d.invalidator.Invalidate(ctx, "orders"); err != nil {
		return Result{}, err
	}

	if intent.Customer != "" {
		if err := d.invalidator.Invalidate(ctx, "customers/"+intent.Customer); err != nil {
			return Result{}, err
		}
	}

	if intent.ReceiptEmail != "" {
		// receipt mail is best effort; a mail failure must not make the
		// provider redeliver an otherwise processed payment
		err := d.mailer.Send(intent.ReceiptEmail, "payment_receipt.tmpl", map[string]any{
			"paymentIntentID": intent.ID,
		})
		if err != nil {
			d.logger.Error("failed to send payment receipt", "payment_intent_id", intent.ID, "error", err)
		}
	}

	d.logger.Info("payment succeeded", "payment_intent_id", intent.ID)

	return Result{Success: true, Handled: true, PaymentIntentID: intent.ID}, nil
}

func (d *Dispatcher) handlePaymentFailed(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	var intent paymentIntentPayload
	if err := json.Unmarshal(event.Payload, &intent); err != nil {
		return Result{}, err
	}

	d.logger.Warn("payment failed", "payment_intent_id", intent.ID, "customer", intent.Customer)

	return Result{Success: true, Handled: true, PaymentIntentID: intent.ID}, nil
}

func (d *Dispatcher) handleSubscriptionCreated(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return Result{}, err
	}

	if err := d.invalidator.Invalidate(ctx, "subscriptions"); err != nil {
		return Result{}, err
	}

	if sub.Customer != "" {
		if err := d.invalidator.Invalidate(ctx, "customers/"+sub.Customer); err != nil {
			return Result{}, err
		}
	}

	d.logger.Info("subscription created", "subscription_id", sub.ID)

	return Result{Success: true, Handled: true, SubscriptionID: sub.ID}, nil
}

func (d *Dispatcher) handleSubscriptionUpdated(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return Result{}, err
	}

	if sub.ID != "" {
		if err := d.invalidator.Invalidate(ctx, "subscriptions/"+sub.ID); err != nil {
			return Result{}, err
		}
	}

	if err := d.invalidator.Invalidate(ctx, "subscriptions"); err != nil {
		return Result{}, err
	}

	d.logger.Info("subscription updated", "subscription_id", sub.ID)

	return Result{Success: true, Handled: true, SubscriptionID: sub.ID}, nil
}

func (d *Dispatcher) handleSubscriptionDeleted(ctx context.Context, event *domain.WebhookEvent) (Result, error) {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return Result{}, err
	}

	if err := d.invalidator.Invalidate(ctx, "subscriptions"); err != nil {
		return Result{}, err
	}

	d.logger.Info("subscription deleted", "subscription_id", sub.ID)

	return Result{Success: true, Handled: true, SubscriptionID: sub.ID}, nil
}

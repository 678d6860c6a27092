package domain

import "encoding/json"

// EventKind is the closed set of provider notifications the dispatcher knows
// how to route. Unknown kinds are explicitly ignored, not failures.
type EventKind string

const (
	EventPaymentSucceeded    EventKind = "payment_intent.succeeded"
	EventPaymentFailed       EventKind = "payment_intent.payment_failed"
	EventSubscriptionCreated EventKind = "customer.subscription.created"
	EventSubscriptionUpdated EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted EventKind = "customer.subscription.deleted"
)

// WebhookEvent is a verified provider notification. The provider is the sole
// producer; no event history is kept locally and redelivery is expected.
type WebhookEvent struct {
	Kind       EventKind
	DeliveryID string
	Payload    json.RawMessage
}

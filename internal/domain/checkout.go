package domain

// CheckoutMode selects between a one-time payment and a recurring subscription.
type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// CheckoutLineItem is one priced, quantified entry within a checkout session.
// Either PriceID references a provider-managed price, or UnitAmount carries an
// inline amount in minor units.
type CheckoutLineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	PriceID     string
	Recurring   bool
	Metadata    map[string]string
}

// CheckoutRequest is the provider-agnostic description of a hosted checkout
// session: the product line items, the injected fee line item (always last),
// and reconciliation metadata.
type CheckoutRequest struct {
	LineItems  []CheckoutLineItem
	Mode       CheckoutMode
	CustomerID string
	Metadata   map[string]string
}

// CheckoutSession is the provider's answer: an opaque session id plus the
// hosted page the customer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// SubscriptionProduct is the locally known shape of a product being
// subscribed to. ListPrice is the product's list price in minor units; the
// actual recurring amount is provider-managed and not known at build time.
type SubscriptionProduct struct {
	ID        string
	Name      string
	ListPrice int64
}

// Product is a read-side projection of a provider product, used only by the
// thin catalog proxy.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitAmount  int64  `json:"unitAmount"`
	PriceID     string `json:"priceId,omitempty"`
	Image       string `json:"image,omitempty"`
}

package domain

// CartItem is one purchasable entry in a cart. Amounts are integer minor
// currency units. Quantity is never persisted below 1; an update that would
// drive it below 1 removes the item instead.
type CartItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitAmount  int64  `json:"unitAmount"`
	Quantity    int64  `json:"quantity"`
	Image       string `json:"image,omitempty"`
	PriceID     string `json:"priceId,omitempty"`
}

// CartTotals is the derived, read-only view of a cart: the fee quote for the
// current subtotal plus the item count (sum of quantities, not entry count).
type CartTotals struct {
	FeeQuote
	ItemCount int64 `json:"itemCount"`
}

// Subtotal sums unit price times quantity over the given items.
func Subtotal(items []CartItem) int64 {
	var subtotal int64

	for _, item := range items {
		subtotal += item.UnitAmount * item.Quantity
	}

	return subtotal
}

// ItemCount sums the quantities of the given items.
func ItemCount(items []CartItem) int64 {
	var count int64

	for _, item := range items {
		count += item.Quantity
	}

	return count
}

// NewCartTotals derives totals for the given items via the fee calculator.
func NewCartTotals(items []CartItem) (CartTotals, error) {
	quote, err := NewFeeQuote(Subtotal(items))
	if err != nil {
		return CartTotals{}, err
	}

	return CartTotals{
		FeeQuote:  quote,
		ItemCount: ItemCount(items),
	}, nil
}

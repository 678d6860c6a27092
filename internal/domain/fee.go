package domain

import "github.com/shopspring/decimal"

// FeePercentage is the fixed transaction fee applied across the whole system.
// It is not configurable per item or per call site.
const FeePercentage int64 = 5

// FeeLineItemName is the display name of the synthetic fee line item appended
// to every checkout session.
const FeeLineItemName = "Transaction Fee (5%)"

var oneHundred = decimal.NewFromInt(100)

// FeeQuote is a derived value, recomputed on every subtotal change and never
// persisted. Amounts are integer minor currency units (cents).
type FeeQuote struct {
	Subtotal      int64 `json:"subtotal"`
	Fee           int64 `json:"fee"`
	Total         int64 `json:"total"`
	FeePercentage int64 `json:"feePercentage"`
}

// ComputeFee returns the transaction fee for the given subtotal in minor units.
//
// The fee is rounded half away from zero, so ComputeFee(s) + s always equals
// ComputeTotal(s) exactly, with no drift between the fee and the remainder.
// A negative subtotal is rejected with ErrInvalidAmount rather than clamped.
func ComputeFee(subtotal int64) (int64, error) {
	return computeFee(subtotal, FeePercentage)
}

// ComputeFeeWithPercentage behaves like ComputeFee with an explicit percentage.
func ComputeFeeWithPercentage(subtotal, percentage int64) (int64, error) {
	return computeFee(subtotal, percentage)
}

func computeFee(subtotal, percentage int64) (int64, error) {
	if subtotal < 0 {
		return 0, ErrInvalidAmount
	}

	fee := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(percentage)).
		Div(oneHundred).
		Round(0)

	return fee.IntPart(), nil
}

// ComputeTotal returns subtotal plus the transaction fee.
func ComputeTotal(subtotal int64) (int64, error) {
	fee, err := ComputeFee(subtotal)
	if err != nil {
		return 0, err
	}

	return subtotal + fee, nil
}

// NewFeeQuote derives a full quote for the given subtotal.
func NewFeeQuote(subtotal int64) (FeeQuote, error) {
	fee, err := ComputeFee(subtotal)
	if err != nil {
		return FeeQuote{}, err
	}

	return FeeQuote{
		Subtotal:      subtotal,
		Fee:           fee,
		Total:         subtotal + fee,
		FeePercentage: FeePercentage,
	}, nil
}

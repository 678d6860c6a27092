package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a non-negative number of minor units")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingProduct = errors.New("product is required")
	ErrMissingPrice   = errors.New("price is required")
	ErrRecordNotFound = errors.New("record not found")
)

// SessionCreationError wraps a payment provider failure during checkout session
// creation. It is never retried locally; checkout is idempotent on user retry.
type SessionCreationError struct {
	Err error
}

func (e *SessionCreationError) Error() string {
	return fmt.Sprintf("failed to create checkout session: %v", e.Err)
}

func (e *SessionCreationError) Unwrap() error {
	return e.Err
}

// SignatureVerificationError marks a webhook delivery whose signature could not
// be verified against the shared secret. It is terminal: no handler runs.
type SignatureVerificationError struct {
	Err error
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %v", e.Err)
}

func (e *SignatureVerificationError) Unwrap() error {
	return e.Err
}

// HandlerSideEffectError marks a webhook handler that verified and decoded its
// event but could not complete a side effect. The delivery should be answered
// with a retryable status so the provider redelivers.
type HandlerSideEffectError struct {
	Kind EventKind
	Err  error
}

func (e *HandlerSideEffectError) Error() string {
	return fmt.Sprintf("handler for %q failed: %v", e.Kind, e.Err)
}

func (e *HandlerSideEffectError) Unwrap() error {
	return e.Err
}

// Package api holds the request and response shapes of the HTTP boundary.
package api

import (
	"time"

	"github.com/metinatakli/storefront/internal/domain"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type AddCartItemRequest struct {
	ProductId   string `json:"productId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	UnitAmount  int64  `json:"unitAmount" validate:"gte=0"`
	Quantity    int64  `json:"quantity" validate:"gte=1"`
	Image       string `json:"image,omitempty"`
	PriceId     string `json:"priceId,omitempty"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type CartResponse struct {
	Items         []domain.CartItem `json:"items"`
	Open          bool              `json:"open"`
	Subtotal      int64             `json:"subtotal"`
	Fee           int64             `json:"fee"`
	Total         int64             `json:"total"`
	FeePercentage int64             `json:"feePercentage"`
	ItemCount     int64             `json:"itemCount"`
}

type CheckoutSessionRequest struct {
	CustomerId string `json:"customerId,omitempty"`
}

type SubscriptionCheckoutRequest struct {
	ProductId   string `json:"productId" validate:"required"`
	ProductName string `json:"productName,omitempty"`
	PriceId     string `json:"priceId" validate:"required"`
	ListPrice   int64  `json:"listPrice" validate:"gte=0"`
	CustomerId  string `json:"customerId,omitempty"`
}

type CheckoutSessionResponse struct {
	RedirectUrl string `json:"redirectUrl"`
	SessionId   string `json:"sessionId"`
}

type ProductListResponse struct {
	Products []domain.Product `json:"products"`
}

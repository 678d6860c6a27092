package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/storefront/api"
	"github.com/metinatakli/storefront/internal/domain"
)

func (app *Application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CheckoutSessionRequest

	// the body is optional; an anonymous checkout sends nothing
	if r.ContentLength > 0 {
		if err := app.readJSON(w, r, &input); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	store := app.sessionCart(r)

	session, err := app.checkoutBuilder.OneTimeCheckout(r.Context(), store.Items(), input.CustomerId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			app.unprocessableEntityResponse(w, r, err)
		default:
			logger.Error("checkout session creation failed", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CheckoutSessionResponse{
		RedirectUrl: session.URL,
		SessionId:   session.ID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateSubscriptionCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.SubscriptionCheckoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	product := domain.SubscriptionProduct{
		ID:        input.ProductId,
		Name:      input.ProductName,
		ListPrice: input.ListPrice,
	}

	session, err := app.checkoutBuilder.SubscriptionCheckout(r.Context(), product, input.PriceId, input.CustomerId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingProduct), errors.Is(err, domain.ErrMissingPrice):
			app.badRequestResponse(w, r, err)
		default:
			logger.Error("subscription checkout creation failed", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CheckoutSessionResponse{
		RedirectUrl: session.URL,
		SessionId:   session.ID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

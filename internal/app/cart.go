package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metinatakli/storefront/api"
	"github.com/metinatakli/storefront/internal/cart"
	"github.com/metinatakli/storefront/internal/domain"
)

// sessionCart hydrates the cart bound to the current browsing session. The
// store is a plain value owned by this request; the session's storage key is
// the only thing shared between requests.
func (app *Application) sessionCart(r *http.Request) *cart.Store {
	key := app.sessionCartKey(r.Context())
	return cart.NewStore(r.Context(), app.cartStorage, key, app.contextGetLogger(r))
}

func toCartResponse(store *cart.Store, totals domain.CartTotals) api.CartResponse {
	items := store.Items()
	if items == nil {
		items = []domain.CartItem{}
	}

	return api.CartResponse{
		Items:         items,
		Open:          store.IsOpen(),
		Subtotal:      totals.Subtotal,
		Fee:           totals.Fee,
		Total:         totals.Total,
		FeePercentage: totals.FeePercentage,
		ItemCount:     totals.ItemCount,
	}
}

func (app *Application) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	store := app.sessionCart(r)

	totals, err := store.Totals()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(store, totals), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.AddCartItemRequest

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

	store := app.sessionCart(r)

	item := domain.CartItem{
		ID:          input.ProductId,
		Name:        input.Name,
		Description: input.Description,
		UnitAmount:  input.UnitAmount,
		Image:       input.Image,
		PriceID:     input.PriceId,
	}

	totals, err := store.AddItem(r.Context(), item, input.Quantity)
	if err != nil {
		// the mutation applied in memory; a failed persistence write is
		// tolerated as best effort for now
		logger.Error("cart write failed after add", "error", err)
	}

	err = app.writeJSON(w, http.StatusCreated, toCartResponse(store, totals), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	itemId := chi.URLParam(r, "itemId")

	var input api.UpdateCartItemRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	store := app.sessionCart(r)

	totals, err := store.UpdateQuantity(r.Context(), itemId, input.Quantity)
	if err != nil {
		logger.Error("cart write failed after quantity update", "item_id", itemId, "error", err)
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(store, totals), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	itemId := chi.URLParam(r, "itemId")

	store := app.sessionCart(r)

	totals, err := store.RemoveItem(r.Context(), itemId)
	if err != nil {
		logger.Error("cart write failed after remove", "item_id", itemId, "error", err)
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(store, totals), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	store := app.sessionCart(r)

	totals, err := store.Clear(r.Context())
	if err != nil {
		logger.Error("cart write failed after clear", "error", err)
	}

	err = app.writeJSON(w, http.StatusOK, toCartResponse(store, totals), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

package app

import (
	"net/http"

	"github.com/metinatakli/storefront/api"
	"github.com/metinatakli/storefront/internal/domain"
)

// ListProductsHandler is a thin read-only proxy over the provider's catalog.
func (app *Application) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := app.paymentProvider.ListProducts(r.Context(), productListLimit)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if products == nil {
		products = []domain.Product{}
	}

	err = app.writeJSON(w, http.StatusOK, api.ProductListResponse{Products: products}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

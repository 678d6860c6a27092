package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/metinatakli/storefront/api"
	"github.com/metinatakli/storefront/internal/cart"
	"github.com/metinatakli/storefront/internal/checkout"
	"github.com/metinatakli/storefront/internal/mailer"
	"github.com/metinatakli/storefront/internal/payment"
	"github.com/metinatakli/storefront/internal/validator"
	"github.com/metinatakli/storefront/internal/webhook"
)

func newTestApplication(opts ...func(*Application)) *Application {
	provider := payment.NewMockPaymentProvider()

	app := &Application{
		config:          Config{Env: "test"},
		validator:       validator.NewValidator(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager:  scs.New(),
		mailer:          mailer.NewMockMailer(),
		cartStorage:     cart.NewMemoryStorage(),
		paymentProvider: provider,
		checkoutBuilder: checkout.NewBuilder(provider),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func withPaymentProvider(provider *payment.MockPaymentProvider) func(*Application) {
	return func(app *Application) {
		app.paymentProvider = provider
		app.checkoutBuilder = checkout.NewBuilder(provider)
	}
}

func withDispatcher(dispatcher *webhook.Dispatcher) func(*Application) {
	return func(app *Application) {
		app.dispatcher = dispatcher
	}
}

func withCartStorage(storage cart.Storage) func(*Application) {
	return func(app *Application) {
		app.cartStorage = storage
	}
}

func setupTestSession(t *testing.T, app *Application, r *http.Request, cartId string) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	if cartId != "" {
		app.sessionManager.Put(ctx, SessionKeyCartId.String(), cartId)
	}

	return r.WithContext(ctx)
}

func withUrlParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

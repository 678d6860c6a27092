package app

import (
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/metinatakli/storefront/internal/domain"
)

const maxWebhookBodyBytes = int64(65536)

// StripeWebhookHandler is the wire-level webhook boundary: a raw body plus a
// provider signature header in, a structured dispatch result out. Signature
// or parse failures answer 400 with {"error": ...}; a handler side-effect
// failure answers 500 so the provider redelivers.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		app.webhookErrorResponse(w, r, http.StatusBadRequest, "missing stripe signature")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed to read webhook body", "error", err)
		app.webhookErrorResponse(w, r, http.StatusBadRequest, "could not read request body")
		return
	}

	result, err := app.dispatcher.Dispatch(r.Context(), payload, signature)
	if err != nil {
		var sigErr *domain.SignatureVerificationError
		var handlerErr *domain.HandlerSideEffectError

		switch {
		case errors.As(err, &sigErr):
			logger.Warn("rejected webhook delivery", "error", err)
			app.countWebhookEvent(r, "rejected", "")
			app.webhookErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &handlerErr):
			logger.Error("webhook handler failed, delivery will be retried", "kind", handlerErr.Kind, "error", err)
			app.countWebhookEvent(r, "failed", string(handlerErr.Kind))
			app.webhookErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	outcome := "ignored"
	if result.Handled {
		outcome = "handled"
	}
	app.countWebhookEvent(r, outcome, "")

	err = app.writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) webhookErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := app.writeJSON(w, status, map[string]string{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) countWebhookEvent(r *http.Request, outcome, kind string) {
	if app.webhookEvents == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if kind != "" {
		attrs = append(attrs, attribute.String("kind", kind))
	}

	app.webhookEvents.Add(r.Context(), 1, metric.WithAttributes(attrs...))
}

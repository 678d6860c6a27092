package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type sessionKey string

const (
	SessionKeyCartId = sessionKey("cartID")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

func contextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

// sessionCartKey returns the storage key of the cart bound to the current
// browsing session, minting one on first use.
func (app *Application) sessionCartKey(ctx context.Context) string {
	cartId := app.sessionManager.GetString(ctx, SessionKeyCartId.String())

	if cartId == "" {
		cartId = uuid.New().String()
		app.sessionManager.Put(ctx, SessionKeyCartId.String(), cartId)
	}

	return "cart:" + cartId
}

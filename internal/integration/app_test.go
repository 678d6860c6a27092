package integration_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metinatakli/storefront/internal/app"
	"github.com/metinatakli/storefront/internal/cart"
	"github.com/metinatakli/storefront/internal/mailer"
	"github.com/metinatakli/storefront/internal/payment"
	appvalidator "github.com/metinatakli/storefront/internal/validator"
)

type TestApp struct {
	App             *app.Application
	Redis           redis.UniversalClient
	Mailer          *mailer.MockMailer
	PaymentProvider *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)
	paymentProvider := payment.NewMockPaymentProvider()

	application := app.NewApp(
		cfg,
		logger,
		redisClient,
		validator,
		mockMailer,
		sessionManager,
		cart.NewRedisStorage(redisClient, 24*time.Hour),
		paymentProvider,
	)

	return &TestApp{
		App:             application,
		Redis:           redisClient,
		Mailer:          mockMailer,
		PaymentProvider: paymentProvider,
	}, nil
}

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/metinatakli/storefront/internal/cache"
	"github.com/metinatakli/storefront/internal/cart"
	"github.com/metinatakli/storefront/internal/checkout"
	"github.com/metinatakli/storefront/internal/domain"
	"github.com/metinatakli/storefront/internal/mailer"
	"github.com/metinatakli/storefront/internal/payment"
	appvalidator "github.com/metinatakli/storefront/internal/validator"
	"github.com/metinatakli/storefront/internal/vcs"
	"github.com/metinatakli/storefront/internal/webhook"
)

var (
	version = vcs.Version()
)

const (
	cartTTL                = 30 * 24 * time.Hour
	invalidationCoalescing = 200 * time.Millisecond
	productListLimit       = 100
)

type Application struct {
	config         Config
	logger         *slog.Logger
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	cartStorage     cart.Storage
	checkoutBuilder *checkout.Builder
	dispatcher      *webhook.Dispatcher
	paymentProvider domain.PaymentProvider

	webhookEvents metric.Int64Counter
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string

	Redis  RedisConfig
	SMTP   SMTPConfig
	Stripe StripeConfig
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessUrl    string
	CancelUrl     string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "Storefront <no-reply@storefront.metinatakli.net>", "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", "", "Stripe webhook secret")
	flag.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url",
		"http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}", "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.CancelUrl, "stripe-cancel-url", "http://localhost:3000/checkout/cancel", "Stripe payment cancel page")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

// New wires the application from its configuration. Every collaborator is an
// explicitly constructed value; nothing hangs off package-level state.
func New(cfg Config) (*Application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	stripeProvider := payment.NewStripePaymentProvider(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.SuccessUrl,
		cfg.Stripe.CancelUrl,
	)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)

	return NewApp(
		cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		smtpMailer,
		NewSessionManager(redisClient),
		cart.NewRedisStorage(redisClient, cartTTL),
		stripeProvider,
	), nil
}

// NewApp assembles an Application from pre-built collaborators. The checkout
// builder, webhook dispatcher and cache invalidator always derive from the
// given provider and redis client.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	appMailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	cartStorage cart.Storage,
	provider domain.PaymentProvider,
) *Application {
	invalidator := cache.NewRedisInvalidator(redisClient, logger, invalidationCoalescing)

	app := &Application{
		config:          cfg,
		logger:          logger,
		redis:           redisClient,
		validator:       validator,
		mailer:          appMailer,
		sessionManager:  sessionManager,
		cartStorage:     cartStorage,
		checkoutBuilder: checkout.NewBuilder(provider),
		dispatcher:      webhook.NewDispatcher(provider, invalidator, appMailer, logger),
		paymentProvider: provider,
	}

	app.initMetrics()

	return app
}

func (app *Application) Close() {
	if app.redis != nil {
		app.redis.Close()
	}
}

func (app *Application) initMetrics() {
	meter := otel.Meter("storefront/webhook")

	counter, err := meter.Int64Counter(
		"webhook.events.dispatched",
		metric.WithDescription("Webhook deliveries by event kind and outcome"),
	)
	if err != nil {
		app.logger.Warn("failed to create webhook event counter", "error", err)
		return
	}

	app.webhookEvents = counter
}

func NewSessionManager(client redis.UniversalClient) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client.(*redis.Client))
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (redis.UniversalClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)
	r.Get("/products", app.ListProductsHandler)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", app.GetCartHandler)
		r.Delete("/", app.ClearCartHandler)
		r.Post("/items", app.AddCartItemHandler)
		r.Patch("/items/{itemId}", app.UpdateCartItemHandler)
		r.Delete("/items/{itemId}", app.RemoveCartItemHandler)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/session", app.CreateCheckoutSessionHandler)
		r.Post("/subscription", app.CreateSubscriptionCheckoutHandler)
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/", app.StripeWebhookHandler)
	})

	return r
}

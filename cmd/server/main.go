package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"conferenceportal/config"
	_ "conferenceportal/docs"
	"conferenceportal/internal/adapters/auth"
	"conferenceportal/internal/adapters/email"
	"conferenceportal/internal/adapters/queue"
	deliveryhttp "conferenceportal/internal/delivery/http"
	"conferenceportal/internal/delivery/http/controllers"
	"conferenceportal/internal/delivery/http/middleware"
	"conferenceportal/internal/domain"
	"conferenceportal/internal/pricing"
	"conferenceportal/internal/repository/postgres"
	"conferenceportal/internal/services"
)

// @title Conference Portal API
// @version 1.0
// @description Conference registration pricing, activity waitlists, and event administration.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to database")

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	discountRepo := postgres.NewDiscountCodeRepository(db)

	resolver, err := pricing.NewResolver(cfg.PricingTZMode, cfg.PricingTimezone, nil)
	if err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	notifier := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	notifications, err := startNotificationQueue(ctx, cfg, notifier, logger)
	if err != nil {
		return err
	}

	eventService := services.NewEventService(eventRepo, discountRepo, registrationRepo, logger, cfg.ContextTimeout)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, discountRepo, resolver, notifications, logger, cfg.ContextTimeout)

	limiter := middleware.NewRateLimiter(cfg.RegistrationRateLimit, cfg.RegistrationRateBurst).
		TrustForwardedFor(cfg.TrustProxyHeaders)
	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Events:        controllers.NewEventController(logger, eventService),
		Registrations: controllers.NewRegistrationController(logger, registrationService),
		RequireAuth:   middleware.RequireAuth(auth.NewJWTVerifier(cfg.JWTSecret), logger),
		Limiter:       limiter,
	})
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// startNotificationQueue uses a Redis list with a worker when REDIS_URL is set,
// and an in-process dispatcher otherwise.
func startNotificationQueue(ctx context.Context, cfg *config.Config, notifier domain.RegistrationNotifier, logger *slog.Logger) (domain.NotificationQueue, error) {
	if cfg.RedisURL == "" {
		q := queue.NewInProcessQueue(notifier, logger, 256)
		go q.Run(ctx)
		logger.Info("notifications dispatched in process")
		return q, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()
	go queue.NewWorker(client, cfg.NotificationQueue, notifier, logger).Run(ctx)
	return queue.NewRedisQueue(client, cfg.NotificationQueue), nil
}

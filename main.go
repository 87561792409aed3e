package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	userRepo "medibook/database/repository/user"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/services/identity"
	"medibook/services/notification"
	"medibook/services/payment"
	"medibook/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("main: invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := utils.NewFirebaseApp(ctx, cfg.FirebaseServiceAccount, cfg.FirebaseProjectID)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase", zap.Error(err))
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase auth", zap.Error(err))
	}

	healthChecks := map[string]utils.HealthCheck{}

	// Redis caches are optional.
	verifierOpts := []identity.Option{identity.WithRevocationCheck(cfg.CheckRevoked)}
	var providerCache *redis.Client
	if cfg.RedisEnabled() {
		authCache, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisAuthDB)
		if err != nil {
			logger.Fatal("main: failed to connect to auth cache", zap.Error(err))
		}
		defer authCache.Close()
		verifierOpts = append(verifierOpts, identity.WithCache(authCache, cfg.AuthCacheTTL))

		cache, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Fatal("main: failed to connect to cache", zap.Error(err))
		}
		defer cache.Close()
		providerCache = cache
		healthChecks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}
	verifier := identity.NewFirebaseTokenVerifier(authClient, logger, verifierOpts...)

	// Document store.
	appts, users, closeStore := openStore(ctx, cfg, app, logger)
	defer closeStore()
	healthChecks["store"] = appts.Ping
	if providerCache != nil {
		users = userRepo.NewCachedUserRepo(users, providerCache, cfg.ProvidersCacheTTL, logger)
	}

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)

	var (
		notifier notification.NotificationService
		queue    *asynq.Client
		worker   *cron.NoticeWorker
	)
	if cfg.NotifyProviders {
		messagingClient, err := app.Messaging(ctx)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase messaging", zap.Error(err))
		}
		notifier, err = notification.NewDefaultNotificationService(users, messagingClient, logger)
		if err != nil {
			logger.Fatal("main: failed to initialize notifications", zap.Error(err))
		}

		// With Redis, provider notices go through the queue; without it they
		// are sent during the verify request.
		if cfg.RedisEnabled() {
			queueOpt := asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisQueueDB,
			}
			queue = asynq.NewClient(queueOpt)
			defer queue.Close()

			worker = cron.NewNoticeWorker(queueOpt, notifier, logger)
			if err := worker.Start(); err != nil {
				logger.Fatal("main: failed to start notice worker", zap.Error(err))
			}
		}
	}

	bookingService, err := booking.NewDefaultBookingService(booking.DefaultBookingService{
		Appointments:     appts,
		Users:            users,
		Gateway:          gateway,
		Notifier:         notifier,
		Tasks:            taskEnqueuer(queue),
		Fee:              cfg.DoctorFee,
		Currency:         cfg.PaymentCurrency,
		EnforceOwnership: cfg.EnforceAppointmentOwnership,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("main: failed to initialize booking service", zap.Error(err))
	}

	monitor := utils.NewHealthMonitor(healthChecks, 30*time.Second, logger)
	monitor.Start(ctx)

	handlerBundle := handlers.NewHandlerBundle(
		verifier,
		handlers.NewAppointmentHandler(bookingService),
		handlers.NewProviderHandler(bookingService),
		handlers.NewPaymentHandler(bookingService),
		handlers.NewHealthHandler(monitor),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, cfg.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSOrigins, logger)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	logger.Info("main: server stopped gracefully")
}

// taskEnqueuer keeps a nil client from becoming a non-nil interface.
func taskEnqueuer(client *asynq.Client) booking.TaskEnqueuer {
	if client == nil {
		return nil
	}
	return client
}

// openStore builds the repositories for the configured backend. The returned
// func releases the underlying client.
func openStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (appointmentRepo.AppointmentRepository, userRepo.UserRepository, func()) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := database.NewMongoClient(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		db := client.Database(cfg.DatabaseName)
		appts, err := appointmentRepo.NewMongoAppointmentRepo(ctx, db)
		if err != nil {
			logger.Fatal("main: failed to prepare appointments collection", zap.Error(err))
		}
		users, err := userRepo.NewMongoUserRepo(ctx, db)
		if err != nil {
			logger.Fatal("main: failed to prepare users collection", zap.Error(err))
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.DatabaseName))
		return appts, users, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
	default:
		client, err := database.NewFirestoreClient(ctx, app)
		if err != nil {
			logger.Fatal("main: failed to initialize Firestore", zap.Error(err))
		}
		logger.Info("Connected to Firestore")
		return appointmentRepo.NewFirestoreAppointmentRepo(client), userRepo.NewFirestoreUserRepo(client), func() {
			_ = client.Close()
		}
	}
}

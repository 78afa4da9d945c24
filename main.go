// File: carbooking/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"carbooking/config"
	"carbooking/cron"
	"carbooking/database"
	bookingRepo "carbooking/database/repository/booking"
	subscriptionRepo "carbooking/database/repository/subscription"
	"carbooking/handlers"
	"carbooking/middleware"
	"carbooking/routes"
	"carbooking/services/booking"
	"carbooking/services/notification"
	"carbooking/services/tasks"
	"carbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mongoClient *mongo.Client
	needMongo := config.AppConfig.StoreDriver != "memory" || config.AppConfig.SubscriptionStore == "mongo"
	if needMongo {
		client, err := database.InitDB(ctx)
		if err != nil {
			logger.Fatal("main: database unavailable", zap.Error(err))
		}
		mongoClient = client
		logger.Info("main: connected to MongoDB")
	}

	// repositories.
	var bookings bookingRepo.BookingRepository
	if config.AppConfig.StoreDriver == "memory" {
		logger.Warn("main: using in-memory booking store, data is lost on restart")
		bookings = bookingRepo.NewMemoryBookingRepo()
	} else {
		bookings = bookingRepo.NewMongoBookingRepo(database.Database())
		ensureIndexes(ctx, logger, bookings)
	}

	var registry notification.Registry
	if config.AppConfig.SubscriptionStore == "mongo" {
		subs := subscriptionRepo.NewMongoSubscriptionRepo(database.Database())
		ensureIndexes(ctx, logger, subs)
		registry = notification.NewDurableRegistry(subs)
	} else {
		registry = notification.NewMemoryRegistry()
	}

	// booking admission lock.
	var locker booking.KeyLocker
	var lockClient *redis.Client
	if config.AppConfig.LockDriver == "redis" {
		client, err := utils.InitLockClient(ctx)
		if err != nil {
			logger.Fatal("main: redis unavailable", zap.Error(err))
		}
		lockClient = client
		locker = booking.NewRedisLocker(client, config.AppConfig.LockTTL, logger.Named("lock"))
	} else {
		locker = booking.NewLocalLocker()
	}

	// services.
	bookingService := booking.NewDefaultBookingService(bookings, locker, config.AppConfig.PasskeyCost, logger)

	deliverer := buildDeliverer(ctx, logger)
	notificationService, err := notification.NewDefaultNotificationService(
		registry,
		deliverer,
		config.AppConfig.DeliveryTimeout,
		logger,
	)
	if err != nil {
		logger.Fatal("main: notification service", zap.Error(err))
	}

	var scheduler tasks.BroadcastScheduler
	var worker *asynq.Server
	if config.AppConfig.BroadcastQueue {
		redisOpts := asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}
		asynqScheduler := tasks.NewAsynqScheduler(redisOpts)
		defer asynqScheduler.Close()
		scheduler = asynqScheduler
		worker = cron.InitBroadcastWorker(redisOpts, notificationService, logger)
	}

	utils.StartHealthMonitor(ctx, time.Minute, lockClient, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingService),
		handlers.NewNotificationHandler(notificationService, scheduler),
		handlers.HealthHandler,
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.AppConfig.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
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
	if lockClient != nil {
		_ = lockClient.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}

	logger.Info("main: server stopped gracefully")
}

// buildDeliverer picks real push channels when their credentials are configured and
// falls back to logging otherwise.
func buildDeliverer(ctx context.Context, logger *zap.Logger) notification.Deliverer {
	router := &notification.RoutingDeliverer{
		WebPush: &notification.LogDeliverer{Logger: logger.Named("webpush")},
		FCM:     &notification.LogDeliverer{Logger: logger.Named("fcm")},
	}

	if config.WebPushEnabled() {
		router.WebPush = notification.NewWebPushDeliverer(
			config.AppConfig.VAPIDPublicKey,
			config.AppConfig.VAPIDPrivateKey,
			config.AppConfig.VAPIDSubscriber,
		)
	} else {
		logger.Warn("main: VAPID keys missing, web push deliveries are only logged")
	}

	if config.AppConfig.FirebaseCredentialsFile != "" {
		client, err := utils.FirebaseInit(ctx)
		if err != nil {
			logger.Fatal("main: firebase", zap.Error(err))
		}
		router.FCM = notification.NewFCMDeliverer(client)
	} else {
		logger.Warn("main: firebase credentials missing, FCM deliveries are only logged")
	}

	return router
}

func ensureIndexes(ctx context.Context, logger *zap.Logger, repo any) {
	ensurer, ok := repo.(database.IndexEnsurer)
	if !ok {
		return
	}
	if err := ensurer.EnsureIndexes(ctx); err != nil {
		logger.Fatal("main: failed to create indexes", zap.Error(err))
	}
}

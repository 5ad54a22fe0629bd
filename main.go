package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagedesk/config"
	"garagedesk/cron"
	"garagedesk/database"
	garageRepo "garagedesk/database/repository/garage"
	subscriptionRepo "garagedesk/database/repository/subscription"
	"garagedesk/handlers"
	"garagedesk/middleware"
	"garagedesk/routes"
	"garagedesk/services/billing"
	"garagedesk/services/garage"
	"garagedesk/services/identity"
	"garagedesk/services/storage"
	"garagedesk/services/tasks"
	"garagedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	checkoutLockTTL     = 30 * time.Second
	eventLedgerTTL      = 7 * 24 * time.Hour
	healthCheckEvery    = 30 * time.Second
	shutdownGracePeriod = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("main: invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage.
	mongoClient, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("main: mongo unavailable", zap.Error(err))
	}
	db := mongoClient.Database(cfg.DatabaseName)

	redisClient, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		logger.Fatal("main: redis unavailable", zap.Error(err))
	}

	subRepo, err := subscriptionRepo.NewMongoSubscriptionRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: failed to prepare subscriptions collection", zap.Error(err))
	}
	garageRepos, err := garageRepo.NewRepositories(ctx, db)
	if err != nil {
		logger.Fatal("main: failed to prepare garage collections", zap.Error(err))
	}

	// Identity.
	var idp identity.Provider
	switch cfg.AuthMode {
	case "jwt":
		logger.Warn("main: using HS256 development tokens")
		idp = identity.NewJWTProvider(cfg.JWTSecret)
	default:
		idp, err = identity.NewFirebaseProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Fatal("main: firebase auth unavailable", zap.Error(err))
		}
	}

	// Billing.
	billingSvc := billing.NewService(billing.Deps{
		Repo:       subRepo,
		Gateway:    billing.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
		Users:      idp,
		Plans:      billing.NewPlanCatalog(cfg.StripePriceBasic, cfg.StripePricePro),
		Lock:       utils.NewRedisLock(redisClient, checkoutLockTTL),
		Ledger:     utils.NewRedisEventLedger(redisClient, eventLedgerTTL),
		Logger:     logger,
		Strategy:   billing.CustomerStrategy(cfg.BillingCustomerStrategy),
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})

	// Retry queue and worker.
	queueOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
	asynqClient := asynq.NewClient(queueOpt)
	defer asynqClient.Close()
	retryQueue := tasks.NewQueue(asynqClient, logger)

	worker, err := cron.StartBillingWorker(queueOpt, billingSvc, logger)
	if err != nil {
		logger.Fatal("main: billing worker", zap.Error(err))
	}

	// Garage records.
	garageDeps := garage.DepsFromRepositories(garageRepos)
	garageDeps.Entitlements = billingSvc
	garageDeps.Logger = logger
	if cfg.CloudinaryCloudName != "" {
		files, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, logger)
		if err != nil {
			logger.Fatal("main: cloudinary", zap.Error(err))
		}
		garageDeps.Files = files
	} else {
		logger.Warn("main: cloudinary not configured, uploads disabled")
	}
	garageSvc := garage.NewService(garageDeps)

	health := utils.NewHealthMonitor(redisClient, mongoClient)
	health.Start(ctx, healthCheckEvery)

	handlerBundle := handlers.NewHandlerBundle(
		idp,
		cfg.SessionCookieName,
		handlers.NewHealthHandler(health),
		handlers.NewBillingHandler(billingSvc, retryQueue),
		handlers.NewGarageHandler(garageSvc),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = storage.MaxUploadBytes
	if err := router.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid trusted proxies", zap.Error(err))
	}
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
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
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := redisClient.Close(); err != nil {
		logger.Warn("main: redis close", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

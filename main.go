package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"indastreet/config"
	"indastreet/cron"
	"indastreet/database"
	bookingRepo "indastreet/database/repository/booking"
	chatRepo "indastreet/database/repository/chat"
	commissionRepo "indastreet/database/repository/commission"
	providerRepo "indastreet/database/repository/provider"
	recordsRepo "indastreet/database/repository/records"
	"indastreet/handlers"
	"indastreet/models"
	"indastreet/routes"
	"indastreet/services/booking"
	"indastreet/services/chat"
	"indastreet/services/enforcement"
	"indastreet/services/notification"
	"indastreet/services/provider"
	"indastreet/services/proximity"
	"indastreet/services/tasks"
	"indastreet/utils"
	"indastreet/utils/idempotency"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracer, err := utils.InitTracer(rootCtx, "indastreet")
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize tracing: %v", err)
	}

	database.InitDB()
	utils.InitCache()
	db := database.DB()
	for name, ensure := range map[string]func(*mongo.Database) error{
		"bookings":    bookingRepo.EnsureIndexes,
		"providers":   providerRepo.EnsureIndexes,
		"commissions": commissionRepo.EnsureIndexes,
		"records":     recordsRepo.EnsureIndexes,
		"chat":        chatRepo.EnsureIndexes,
	} {
		if err := ensure(db); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)

	// repositories.
	bookRepo := bookingRepo.NewMongoBookingRepo(db)
	provRepo := providerRepo.NewMongoProviderRepo(db)
	commRepo := commissionRepo.NewMongoCommissionRepo(db)
	recRepo := recordsRepo.NewMongoRecordRepo(db)
	msgRepo := chatRepo.NewMongoChatRepo(db)

	asynqClient := asynq.NewClient(cron.RedisOpt())
	defer asynqClient.Close()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(recRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	bookingService := booking.NewBookingService(booking.Dependencies{
		Repo:          bookRepo,
		Providers:     provRepo,
		Commissions:   commRepo,
		Notifications: notificationService,
		Expiry:        tasks.NewExpiryScheduler(asynqClient),
		Cache:         utils.GetCacheClient(),
		Logger:        logger,
		Location:      config.Location(),
	})

	providerService, err := provider.NewDefaultProviderService(provRepo, recRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	enforcementService := enforcement.NewEnforcementService(recRepo, provRepo, notificationService, logger)

	sealer, err := chat.NewSealer(config.AppConfig.ChatEncryptionKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize chat encryption: %v", err)
	}
	chatService, err := chat.NewChatService(msgRepo, recRepo, enforcementService, sealer, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	proximityService := &proximity.DefaultProximityService{
		Bookings:   bookRepo,
		Violations: recRepo,
		Logger:     logger,
	}

	worker := cron.NewWorker(bookingService, logger)
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start booking worker: %v", err)
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(
		bookingService,
		idempotency.New[*models.Booking]("create_booking", config.IdempotencyTTL()),
		config.Location(),
		logger,
	)
	handlerBundle := handlers.NewHandlerBundle(
		bookingHandler,
		handlers.NewProviderHandler(providerService),
		&handlers.ProximityHandler{ProximitySvc: proximityService},
		&handlers.ChatHandler{ChatSvc: chatService},
		&handlers.AdminHandler{
			BookingSvc:     bookingService,
			EnforcementSvc: enforcementService,
			ProviderSvc:    providerService,
		},
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if proxies := config.TrustedProxyList(); proxies != nil {
		if err := router.SetTrustedProxies(proxies); err != nil {
			logger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
		}
	}
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := shutdownTracer(ctx); err != nil {
		logger.Sugar().Warnf("main: tracer shutdown: %v", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

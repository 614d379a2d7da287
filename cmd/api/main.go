package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/internal/giftcards"
	"github.com/richxcame/giftcard-service/internal/loyalty"
	"github.com/richxcame/giftcard-service/internal/payments"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/database"
	"github.com/richxcame/giftcard-service/pkg/eventbus"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/middleware"
	"github.com/richxcame/giftcard-service/pkg/ratelimit"
	"github.com/richxcame/giftcard-service/pkg/redis"
)

const (
	serviceName    = "giftcard-api"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// PostgreSQL
	dbPool, err := database.NewDBPool(&cfg.Database, cfg.Server.ServiceName)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()
	db := dbPool.GetPrimary()
	logger.Info("Connected to PostgreSQL")

	// Redis (rate limiting)
	redisClient, err := redis.NewRedisClient(&cfg.Redis, cfg.Timeouts)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// NATS event bus
	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		bus, err = eventbus.NewBus(cfg.NATS.URL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer bus.Close()
		logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	// Stripe
	var paymentSvc *payments.Service
	if cfg.Stripe.Enabled {
		stripeClient := payments.NewStripeClient(cfg.Stripe.SecretKey)
		paymentSvc = payments.NewService(stripeClient)
		logger.Info("Stripe payments enabled")
	}

	// Services
	giftCardRepo := giftcards.NewRepository(db)
	loyaltyRepo := loyalty.NewRepository(db)
	loyaltySvc := loyalty.NewService(loyaltyRepo)

	// Typed nils must not leak into the interface fields
	var processor giftcards.PaymentProcessor
	if paymentSvc != nil {
		processor = paymentSvc
	}
	var publisher giftcards.EventPublisher
	if bus != nil {
		publisher = bus
	}
	giftCardSvc := giftcards.NewService(giftCardRepo, processor, publisher, cfg.GiftCard)

	giftCardHandler := giftcards.NewHandler(giftCardSvc)
	loyaltyHandler := loyalty.NewHandler(loyaltySvc)

	// Event-driven loyalty accrual
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if bus != nil {
		loyaltyEvents := loyalty.NewEventHandler(loyaltySvc, bus)
		if err := loyaltyEvents.Start(ctx); err != nil {
			logger.Fatal("Failed to start loyalty event handler", zap.Error(err))
		}
		logger.Info("Loyalty event handler subscribed")
	}

	// Expiry sweep
	go runExpirySweep(ctx, giftCardSvc, cfg.GiftCard.SweepInterval)

	// Router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.CORSOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())

	limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)

	// Health and metrics
	healthChecks := map[string]func() error{
		"database": func() error { return db.Ping(context.Background()) },
		"redis":    func() error { return redisClient.Ping(context.Background()).Err() },
	}
	router.GET("/healthz", common.HealthCheck(serviceName, serviceVersion))
	router.GET("/health/ready", common.HealthCheckWithDeps(serviceName, serviceVersion, healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.ValidateContentType("application/json"))
	{
		// Public balance check, rate limited by client IP
		api.GET("/gift-cards/:code/balance", ratelimit.Middleware(limiter), giftCardHandler.CheckBalance)

		// Authenticated routes. The limiter runs after Auth so requests
		// are keyed by user ID, not client IP.
		authed := api.Group("")
		authed.Use(middleware.Auth(cfg.JWT.Secret), ratelimit.Middleware(limiter))
		{
			authed.POST("/gift-cards", giftCardHandler.PurchaseCard)
			authed.GET("/gift-cards", giftCardHandler.ListPurchased)
			authed.POST("/gift-cards/redeem", giftCardHandler.Redeem)

			authed.GET("/loyalty/status", loyaltyHandler.GetStatus)
			authed.POST("/loyalty/redeem", loyaltyHandler.RedeemPoints)
			authed.GET("/loyalty/history", loyaltyHandler.GetHistory)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(cfg.JWT.Secret), middleware.RequireAdmin(), ratelimit.Middleware(limiter))
		{
			admin.POST("/gift-cards", giftCardHandler.CreateCard)
			admin.GET("/gift-cards/:id", giftCardHandler.GetCard)
			admin.POST("/gift-cards/bulk", giftCardHandler.CreateBulk)
			admin.POST("/gift-cards/refund", giftCardHandler.Refund)
			admin.POST("/gift-cards/sweep", giftCardHandler.SweepExpired)
			admin.POST("/gift-cards/:id/disable", giftCardHandler.DisableCard)
			admin.GET("/orders/:id/gift-card-transactions", giftCardHandler.GetOrderTransactions)
		}
	}

	// Serve with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Gift card service starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

// runExpirySweep periodically reconciles card status with expiry dates
func runExpirySweep(ctx context.Context, service *giftcards.Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := service.SweepExpired(ctx); err != nil {
				logger.Error("Expiry sweep failed", zap.Error(err))
			}
		}
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/clients"
	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/common/metrics"
	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/middleware"
	"storefront-service/routes"
	"storefront-service/services"
	"storefront-service/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "storefront-service"

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── CloudWatch Logs + Metrics ──
	var recorder metrics.Recorder = metrics.Nop{}
	var logsWriter *metrics.LogsWriter
	if cfg.CloudWatchEnabled {
		awsCfg, err := metrics.LoadAWSConfig(ctx)
		if err != nil {
			log.Printf("[Storefront] AWS config failed, CloudWatch disabled: %v", err)
		} else {
			recorder = metrics.NewClient(awsCfg, cfg.MetricsNamespace, true)
			log.Println("[Storefront] CloudWatch Metrics enabled")
			if w, err := metrics.NewLogsWriter(ctx, awsCfg, cfg.LogGroup, serviceName); err != nil {
				log.Printf("[Storefront] CloudWatch Logs init failed: %v", err)
			} else {
				logsWriter = w
				log.Println("[Storefront] CloudWatch Logs enabled")
			}
		}
	}

	if logsWriter != nil {
		logger.InitializeWithWriter(cfg.Env, logsWriter)
	} else {
		logger.Initialize(cfg.Env)
	}
	defer logger.Log.Sync()

	catalog, err := services.LoadCatalog(cfg.MenuFile)
	if err != nil {
		logger.Log.Fatal("Failed to load menu", zap.Error(err))
	}

	var carts database.CartRepository
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		carts = database.NewRedisCartRepository(redisClient, cfg.SessionTTL)
		logger.Log.Info("Session carts stored in Redis")
	} else {
		memory := database.NewMemoryCartRepository(cfg.SessionTTL)
		memory.StartCleanup(ctx, time.Minute)
		carts = memory
		logger.Log.Info("Session carts stored in memory")
	}

	backend := clients.NewBackendClient(cfg.BackendURL, cfg.RequestTimeout, recorder)
	cartService := services.NewCartService(carts, catalog)
	checkoutService := services.NewCheckoutService(backend, recorder)
	verificationService := services.NewVerificationService(backend, recorder)
	orderService := services.NewOrderService(backend, recorder)

	tmpl, err := templates.Load()
	if err != nil {
		logger.Log.Fatal("Failed to parse templates", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(logger.Log))
	r.Use(middleware.MetricsMiddleware(recorder, serviceName))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimitPerMinute))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middleware.Session(cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure))

	routes.RegisterRoutes(r,
		controllers.NewStorefrontController(catalog, cartService, checkoutService, verificationService, orderService),
		controllers.NewAPIController(catalog, cartService, checkoutService, verificationService, orderService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Storefront listening", zap.String("port", cfg.Port), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Shutdown error", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmentor/mentor-application-api/config"
	"github.com/getmentor/mentor-application-api/internal/cache"
	"github.com/getmentor/mentor-application-api/internal/database/postgres"
	"github.com/getmentor/mentor-application-api/internal/database/redis"
	"github.com/getmentor/mentor-application-api/internal/handlers"
	"github.com/getmentor/mentor-application-api/internal/middleware"
	"github.com/getmentor/mentor-application-api/internal/repository"
	"github.com/getmentor/mentor-application-api/internal/services"
	"github.com/getmentor/mentor-application-api/pkg/db"
	"github.com/getmentor/mentor-application-api/pkg/httpclient"
	"github.com/getmentor/mentor-application-api/pkg/jwt"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	"github.com/getmentor/mentor-application-api/pkg/profiling"
	"github.com/getmentor/mentor-application-api/pkg/storage"
	"github.com/getmentor/mentor-application-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form boundaries around the profile image
const multipartOverhead = 64 * 1024

// registerApplicationRoutes registers the application wizard routes
func registerApplicationRoutes(
	router *gin.Engine,
	cfg *config.Config,
	generalRateLimiter, startRateLimiter, submitRateLimiter *middleware.RateLimiter,
	applicationHandler *handlers.ApplicationHandler,
	tokenManager *jwt.TokenManager,
) {
	v1 := router.Group("/api/v1")
	v1.GET("/application/options", generalRateLimiter.Middleware(), applicationHandler.GetOptions)
	v1.POST("/application", startRateLimiter.Middleware(), applicationHandler.Start)

	// Session-bound routes
	app := v1.Group("/application")
	app.Use(generalRateLimiter.Middleware())
	app.Use(middleware.ApplicationSessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure))

	app.GET("", applicationHandler.Get)
	app.PATCH("/fields", middleware.BodySizeLimitMiddleware(256*1024), applicationHandler.UpdateFields)
	app.POST("/tags", middleware.BodySizeLimitMiddleware(4*1024), applicationHandler.ToggleTag)
	app.PUT("/tab", middleware.BodySizeLimitMiddleware(4*1024), applicationHandler.Navigate)
	app.GET("/sections/:tab/validate", applicationHandler.ValidateSection)
	app.POST("/profile-image", middleware.BodySizeLimitMiddleware(cfg.Drafts.ProfileImageMaxBytes+multipartOverhead), applicationHandler.UploadProfileImage)
	app.POST("/submit", submitRateLimiter.Middleware(), applicationHandler.Submit)
	app.DELETE("", applicationHandler.Discard)
}

// newDraftStore opens the configured draft store backend
func newDraftStore(ctx context.Context, cfg *config.Config) (repository.DraftStore, func(), error) {
	switch cfg.Drafts.Store {
	case config.DraftStoreRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Error("Failed to close redis client", zap.Error(closeErr))
			}
		}
		return redis.NewDraftStore(client, cfg.Drafts.TTL()), closeFn, nil
	default:
		return cache.NewDraftCache(cfg.Drafts.TTL()), func() {}, nil
	}
}

// newApplicationSink opens the database sink, or an offline sink when the database is disabled
func newApplicationSink(ctx context.Context, cfg *config.Config) (repository.ApplicationSink, func(), error) {
	if cfg.Database.WorkOffline {
		logger.Warn("Database offline mode: submitted applications are not stored")
		return repository.NewOfflineSink(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		CACertPath: cfg.Database.CACertPath,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
	})
	if err != nil {
		return nil, nil, err
	}

	client := postgres.NewClient(pool)
	return repository.NewApplicationRepository(client), client.Close, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting mentor application API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("draft_store", cfg.Drafts.Store),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(rootCtx, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics(rootCtx)

	drafts, closeDrafts, err := newDraftStore(rootCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize draft store", zap.Error(err))
	}
	defer closeDrafts()

	// NOTE: Database migrations run separately via the migrate command
	sink, closeSink, err := newApplicationSink(rootCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer closeSink()

	// Profile images are uploaded on submission only when object storage is configured
	var uploader services.ImageUploader
	if cfg.ObjectStorage.Enabled() {
		uploader = storage.NewClient(storage.Options{
			AccessKeyID:     cfg.ObjectStorage.AccessKeyID,
			SecretAccessKey: cfg.ObjectStorage.SecretAccessKey,
			BucketName:      cfg.ObjectStorage.BucketName,
			Endpoint:        cfg.ObjectStorage.Endpoint,
			Region:          cfg.ObjectStorage.Region,
		})
	} else {
		logger.Warn("Object storage not configured: profile images are not uploaded")
	}

	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.TTLHours)
	httpClient := httpclient.NewStandardClient(httpclient.DefaultTimeout)

	// Initialize services
	applicationService := services.NewApplicationService(drafts, sink, uploader, tokenManager, cfg, httpClient)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	healthHandler := handlers.NewHealthHandler(drafts.Ping)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only specific origins, credentials carry the session cookie
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(rootCtx, 50, 100) // field edits arrive in bursts while typing
	startRateLimiter := middleware.NewRateLimiter(rootCtx, 0.1, 5)    // 6 new drafts/min, burst of 5
	submitRateLimiter := middleware.NewRateLimiter(rootCtx, 0.2, 3)   // 12 submits/min, burst of 3

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	registerApplicationRoutes(router, cfg, generalRateLimiter, startRateLimiter, submitRateLimiter, applicationHandler, tokenManager)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

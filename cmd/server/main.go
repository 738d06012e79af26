// Package main runs the car rental HTTP API with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autosam-rentals/backend/config"
	"github.com/autosam-rentals/backend/internal/auth"
	"github.com/autosam-rentals/backend/internal/bookings"
	"github.com/autosam-rentals/backend/internal/cars"
	"github.com/autosam-rentals/backend/internal/dashboard"
	"github.com/autosam-rentals/backend/internal/emaillogs"
	"github.com/autosam-rentals/backend/internal/middleware"
	"github.com/autosam-rentals/backend/internal/notify"
	"github.com/autosam-rentals/backend/internal/promotions"
	"github.com/autosam-rentals/backend/internal/worker"
	"github.com/autosam-rentals/backend/pkg/database"
	"github.com/autosam-rentals/backend/pkg/queue"
	"github.com/autosam-rentals/backend/pkg/redis"
	"github.com/autosam-rentals/backend/pkg/response"
	"github.com/autosam-rentals/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ImagesBucket:         cfg.AWS.ImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Fleet
	carRepo := cars.NewRepository(pool)
	carHandler := cars.NewHandler(carRepo, s3Client, logger)

	// Notifications (queued emails + delivery log)
	emailLogsRepo := emaillogs.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	notifier := notify.NewNotifier(jobQueue, emailLogsRepo, cfg.Agency.Name, cfg.Agency.OperatorEmail, logger)

	// Bookings
	bookingRepo := bookings.NewRepository(pool)
	bookingHandler := bookings.NewHandler(bookingRepo, carRepo, notifier, logger)

	// Promotions
	promoRepo := promotions.NewRepository(pool)
	promoHandler := promotions.NewHandler(promoRepo, logger)

	emailLogsHandler := emaillogs.NewHandler(emailLogsRepo, bookingRepo, carRepo, notifier)

	// Dashboard
	dashRepo := dashboard.NewRepository(pool)
	dashHandler := dashboard.NewHandler(dashRepo, logger)

	// In-process email delivery worker; cmd/worker runs the same loop
	// standalone when deliveries should survive API restarts.
	sender := notify.NewSMTPSender(cfg.Email)
	emailProcessor := worker.NewEmailProcessor(jobQueue, sender, emailLogsRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public catalog and booking intake. Bookings accept an optional token so
	// logged-in renters get the booking attached to their account.
	public := router.Group("/api")
	{
		public.GET("/cars", carHandler.List)
		public.GET("/cars/:id", carHandler.GetByID)
		public.GET("/cars/:id/availability", bookingHandler.CheckAvailability)
		public.GET("/promotions", promoHandler.ListActive)
		public.POST("/promotions/validate", promoHandler.Validate)
		public.POST("/bookings", middleware.OptionalJWT(jwtService), bookingHandler.Create)
	}

	// Renter endpoints (JWT required)
	api := router.Group("/api")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/bookings/my-bookings", bookingHandler.MyBookings)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	}

	// Admin endpoints
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole("admin"))
	{
		admin.GET("/dashboard", dashHandler.Overview)

		admin.GET("/bookings", bookingHandler.List)
		admin.PUT("/bookings/:id/status", bookingHandler.SetStatus)
		admin.DELETE("/bookings/:id", bookingHandler.Delete)

		admin.POST("/cars", carHandler.Create)
		admin.PUT("/cars/:id", carHandler.Update)
		admin.DELETE("/cars/:id", carHandler.Delete)
		admin.POST("/cars/:id/images", carHandler.UploadImage)
		admin.DELETE("/cars/:id/images/:imageId", carHandler.DeleteImage)

		admin.GET("/promotions", promoHandler.ListAll)
		admin.POST("/promotions", promoHandler.Create)
		admin.PUT("/promotions/:id", promoHandler.Update)
		admin.DELETE("/promotions/:id", promoHandler.Delete)

		admin.GET("/users", authHandler.List)
		admin.POST("/users", authHandler.CreateUser)

		admin.GET("/emails", emailLogsHandler.List)
		admin.POST("/emails/:id/resend", emailLogsHandler.Resend)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (email delivery)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go emailProcessor.Run(workerCtx)
	logger.Info("email worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

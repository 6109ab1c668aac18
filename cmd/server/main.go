// Package main runs the invitation HTTP server with graceful shutdown.
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

	"github.com/aura-invites/backend/config"
	"github.com/aura-invites/backend/internal/analytics"
	"github.com/aura-invites/backend/internal/auth"
	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/invites"
	"github.com/aura-invites/backend/internal/media"
	"github.com/aura-invites/backend/internal/middleware"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/rsvp"
	"github.com/aura-invites/backend/pkg/database"
	"github.com/aura-invites/backend/pkg/queue"
	"github.com/aura-invites/backend/pkg/redis"
	"github.com/aura-invites/backend/pkg/response"
	"github.com/aura-invites/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("time zone", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Bucket != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.Bucket,
			PublicBaseURL:   cfg.AWS.PublicBaseURL,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	local := i18n.New(cfg.App.Locale)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	views := invites.NewRedisViewCounter(rdb.Client)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Invitations
	inviteRepo := invites.NewRepository(pool)
	inviteSvc := invites.NewService(inviteRepo, jobQueue, logger)
	inviteHandler := invites.NewHandler(inviteSvc, local, logger)
	publicHandler := invites.NewPublicHandler(inviteSvc, views, invites.PublicConfig{
		BaseURL:  cfg.App.BaseURL,
		Locale:   cfg.App.Locale,
		TimeZone: loc,
	}, logger)

	// RSVPs
	rsvpSvc := rsvp.NewService(rsvp.NewRepository(pool), inviteRepo, logger).InLocation(loc)
	rsvpHandler := rsvp.NewHandler(rsvpSvc, local, logger)

	// Dashboard stats
	analyticsHandler := analytics.NewHandler(views, rsvpSvc, loc, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) {
		hctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		dbOK := pool.Ping(hctx) == nil
		redisOK := rdb.Healthy(hctx)
		status := gin.H{"status": "ok", "database": dbOK, "redis": redisOK, "storage": s3Client != nil}
		if !dbOK || !redisOK {
			status["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, response.Body{Success: false, Data: status})
			return
		}
		response.OK(c, status)
	})

	// Guest pages (public)
	router.GET("/i/:slug", publicHandler.Page)
	router.GET("/i/:slug/calendar.ics", publicHandler.Calendar)
	router.GET("/demo/:templateId", publicHandler.Demo)
	router.GET("/api/templates", publicHandler.Templates)
	router.POST("/api/invites/:id/rsvps", rsvpHandler.Submit)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Operator API (JWT required)
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWT(jwtService))
	{
		admin.GET("/users", middleware.RequireRole(models.RoleAdmin), authHandler.List)

		admin.GET("/invites", inviteHandler.List)
		admin.POST("/invites", inviteHandler.Create)

		owned := admin.Group("/invites/:id")
		owned.Use(invites.RequireOwner(inviteSvc))
		{
			owned.GET("", inviteHandler.Get)
			owned.PUT("", inviteHandler.Replace)
			owned.DELETE("", inviteHandler.Delete)
			owned.POST("/duplicate", inviteHandler.Duplicate)
			owned.GET("/preview", inviteHandler.Preview)
			owned.GET("/rsvps", rsvpHandler.List)
			owned.GET("/rsvps/export.csv", rsvpHandler.ExportCSV)
			owned.GET("/stats", analyticsHandler.GetByInvite)
		}

		if s3Client != nil {
			mediaHandler := media.NewHandler(media.NewS3Store(s3Client, logger), logger)
			admin.POST("/uploads", mediaHandler.Upload)
			admin.DELETE("/uploads", mediaHandler.Remove)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("locale", local.Locale()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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

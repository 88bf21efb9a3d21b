package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/zchut-miluim/mentoring-api/api/swagger"
	"github.com/zchut-miluim/mentoring-api/internal/handler"
	"github.com/zchut-miluim/mentoring-api/internal/middleware"
	"github.com/zchut-miluim/mentoring-api/internal/repository"
	"github.com/zchut-miluim/mentoring-api/internal/service"
	"github.com/zchut-miluim/mentoring-api/pkg/cache"
	"github.com/zchut-miluim/mentoring-api/pkg/config"
	"github.com/zchut-miluim/mentoring-api/pkg/database"
	"github.com/zchut-miluim/mentoring-api/pkg/lock"
	"github.com/zchut-miluim/mentoring-api/pkg/logger"
	corsmiddleware "github.com/zchut-miluim/mentoring-api/pkg/middleware/cors"
	reqidmiddleware "github.com/zchut-miluim/mentoring-api/pkg/middleware/requestid"
	"github.com/zchut-miluim/mentoring-api/pkg/storage"
)

// @title Zchut Miluim Mentoring API
// @version 1.0.0
// @description Mentoring platform connecting reservist students with academic mentors
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.Booking.LockEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, booking lock disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			locker = lock.NewRedisLocker(redisClient)
		}
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	validate := validator.New()

	menteeRepo := repository.NewMenteeRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(menteeRepo, mentorRepo, adminRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	menteeSvc := service.NewMenteeService(menteeRepo, validate, logr)
	mentorSvc := service.NewMentorService(mentorRepo, validate, logr)
	bookingSvc := service.NewBookingService(sessionRepo, menteeRepo, mentorRepo, locker, validate, logr, service.BookingConfig{
		LockTTL: cfg.Booking.LockTTL,
	})
	eligibilitySvc := service.NewEligibilityService(cfg.Eligibility.Policy, validate, logr)
	documentSvc := service.NewDocumentService(store, signer, logr, service.DocumentConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})
	exportSvc := service.NewExportService(menteeRepo, sessionRepo, logr)
	statsSvc := service.NewStatsService(menteeRepo, mentorRepo, sessionRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	menteeHandler := handler.NewMenteeHandler(menteeSvc)
	mentorHandler := handler.NewMentorHandler(mentorSvc)
	sessionHandler := handler.NewSessionHandler(bookingSvc, metricsSvc)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilitySvc)
	documentHandler := handler.NewDocumentHandler(documentSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authRequired := middleware.JWT(authSvc)

	// Public surface: registration, login, mentor directory browsing,
	// eligibility checks and signed document downloads.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/admin/login", authHandler.AdminLogin)
	api.POST("/mentees", menteeHandler.Register)
	api.POST("/mentors", mentorHandler.Register)
	api.GET("/mentors", mentorHandler.List)
	api.GET("/mentors/:id", mentorHandler.Get)
	api.POST("/eligibility/check", eligibilityHandler.Check)
	api.POST("/eligibility/check/percentage", eligibilityHandler.CheckPercentage)
	api.GET("/eligibility/policy", eligibilityHandler.Policy)
	api.GET("/documents/:token", documentHandler.Download)

	authed := api.Group("")
	authed.Use(authRequired)

	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/mentees", middleware.RBAC("ADMIN"), menteeHandler.List)
	authed.GET("/mentees/:id", middleware.RBAC("ADMIN", "SELF"), menteeHandler.Get)
	authed.PUT("/mentees/:id", middleware.RBAC("ADMIN", "SELF"), menteeHandler.UpdateProfile)
	authed.POST("/mentees/:id/approve", middleware.RBAC("ADMIN"), menteeHandler.Approve)
	authed.POST("/mentees/:id/reject", middleware.RBAC("ADMIN"), menteeHandler.Reject)
	authed.POST("/mentees/:id/payment", middleware.RBAC("ADMIN"), menteeHandler.RecordPayment)
	authed.GET("/mentees/:id/hours", middleware.RBAC("ADMIN", "SELF"), sessionHandler.RemainingHours)
	authed.PUT("/mentees/:id/hours", middleware.RBAC("ADMIN"), menteeHandler.SetHoursBalance)

	authed.PUT("/mentors/:id", middleware.RBAC("ADMIN", "SELF"), mentorHandler.UpdateProfile)
	authed.POST("/mentors/:id/approve", middleware.RBAC("ADMIN"), mentorHandler.Approve)
	authed.POST("/mentors/:id/reject", middleware.RBAC("ADMIN"), mentorHandler.Reject)
	authed.PUT("/mentors/:id/rate", middleware.RBAC("ADMIN"), mentorHandler.SetHourlyRate)

	authed.POST("/sessions", middleware.RBAC("MENTEE"), sessionHandler.Book)
	authed.GET("/sessions", sessionHandler.List)
	authed.GET("/sessions/:id", sessionHandler.Get)
	authed.POST("/sessions/:id/approve", middleware.RBAC("ADMIN", "MENTOR"), sessionHandler.Approve)
	authed.POST("/sessions/:id/decline", middleware.RBAC("MENTOR"), sessionHandler.Decline)
	authed.POST("/sessions/:id/cancel", sessionHandler.Cancel)
	authed.DELETE("/sessions/:id/notification", sessionHandler.DismissNotification)

	authed.POST("/documents", documentHandler.Upload)
	authed.POST("/documents/:token/refresh", documentHandler.Refresh)
	authed.DELETE("/documents/:token", middleware.RBAC("ADMIN"), documentHandler.Delete)

	authed.GET("/admin/stats", middleware.RBAC("ADMIN"), statsHandler.Dashboard)

	authed.GET("/exports/payments", middleware.RBAC("ADMIN"), exportHandler.Payments)
	authed.GET("/exports/sessions", middleware.RBAC("ADMIN"), exportHandler.Sessions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/studyhub-api/api/swagger"
	"github.com/noah-isme/studyhub-api/internal/handler"
	"github.com/noah-isme/studyhub-api/internal/middleware"
	"github.com/noah-isme/studyhub-api/internal/repository"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/cache"
	"github.com/noah-isme/studyhub-api/pkg/config"
	"github.com/noah-isme/studyhub-api/pkg/database"
	"github.com/noah-isme/studyhub-api/pkg/export"
	"github.com/noah-isme/studyhub-api/pkg/jobs"
	"github.com/noah-isme/studyhub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studyhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studyhub-api/pkg/middleware/requestid"
)

// @title StudyHub API
// @version 1.0.0
// @description Courses, grades, assignments and class schedule for a student planner, with GPA and dashboard views.
// @BasePath /
// @schemes http https
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
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logr.Fatal("schema migration failed", zap.Error(err))
	}
	cancel()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Grades.CacheTTL, logr, redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, courseRepo, cacheSvc, metricsSvc, validate, logr, service.GradeServiceConfig{
		CacheEnabled: cfg.Grades.CacheEnabled,
		CacheTTL:     cfg.Grades.CacheTTL,
	})
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, courseRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(courseRepo, assignmentRepo, scheduleRepo, gradeSvc, cacheSvc, metricsSvc, logr, service.DashboardServiceConfig{
		CacheTTL:       cfg.Dashboard.CacheTTL,
		UpcomingWindow: cfg.Dashboard.UpcomingWindow,
		UpcomingLimit:  cfg.Dashboard.UpcomingLimit,
	})
	if cfg.Warmer.Enabled && cacheSvc.Enabled() {
		warmer := service.NewCacheWarmer(gradeSvc, dashboardSvc, jobs.QueueConfig{
			Workers:    cfg.Warmer.Workers,
			MaxRetries: cfg.Warmer.MaxRetries,
			RetryDelay: cfg.Warmer.RetryDelay,
			Logger:     logr,
		})
		warmer.Start(context.Background())
		defer warmer.Stop()
		cacheSvc.SetWarmer(warmer)
	}
	transcriptSvc := service.NewTranscriptService(gradeSvc, export.NewCSVExporter(), nil, logr)
	tokenVerifier := service.NewTokenVerifier(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Leeway:   cfg.JWT.Leeway,
	}, logr)

	courseHandler := handler.NewCourseHandler(courseSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, transcriptSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc, "/metrics"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenVerifier))

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update)
	courses.DELETE("/:id", courseHandler.Delete)
	courses.POST("/:id/enroll", courseHandler.Enroll)
	courses.POST("/:id/drop", courseHandler.Drop)

	grades := api.Group("/grades")
	grades.GET("", gradeHandler.List)
	grades.POST("", gradeHandler.Create)
	grades.GET("/overview", gradeHandler.Overview)
	grades.GET("/transcript", gradeHandler.Transcript)
	grades.GET("/:id", gradeHandler.Get)
	grades.PUT("/:id", gradeHandler.Update)
	grades.DELETE("/:id", gradeHandler.Delete)

	assignments := api.Group("/assignments")
	assignments.GET("", assignmentHandler.List)
	assignments.POST("", assignmentHandler.Create)
	assignments.GET("/:id", assignmentHandler.Get)
	assignments.PUT("/:id", assignmentHandler.Update)
	assignments.DELETE("/:id", assignmentHandler.Delete)
	assignments.POST("/:id/complete", assignmentHandler.Complete)
	assignments.POST("/:id/reopen", assignmentHandler.Reopen)

	schedules := api.Group("/schedules")
	schedules.GET("", scheduleHandler.List)
	schedules.POST("", scheduleHandler.Create)
	schedules.GET("/today", scheduleHandler.Today)
	schedules.GET("/:id", scheduleHandler.Get)
	schedules.PUT("/:id", scheduleHandler.Update)
	schedules.DELETE("/:id", scheduleHandler.Delete)

	api.GET("/dashboard", dashboardHandler.Summary)
	api.GET("/metrics/summary", metricsHandler.Snapshot)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vhtran/scorekeeper-api/api/swagger"
	"github.com/vhtran/scorekeeper-api/internal/handler"
	"github.com/vhtran/scorekeeper-api/internal/middleware"
	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/repository"
	"github.com/vhtran/scorekeeper-api/internal/service"
	"github.com/vhtran/scorekeeper-api/pkg/cache"
	"github.com/vhtran/scorekeeper-api/pkg/config"
	"github.com/vhtran/scorekeeper-api/pkg/database"
	"github.com/vhtran/scorekeeper-api/pkg/logger"
	corsmiddleware "github.com/vhtran/scorekeeper-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vhtran/scorekeeper-api/pkg/middleware/requestid"
	"github.com/vhtran/scorekeeper-api/pkg/sweeper"
)

// @title Scorekeeper API
// @version 1.0.0
// @description Score records backend with assignment-based authorization and time-boxed entry windows
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

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	users := repository.NewUserRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	scores := repository.NewScoreRepository(db)
	windows := repository.NewScheduleWindowRepository(db)
	roster := repository.NewRosterRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)
	authSvc := service.NewAuthService(users, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	authzSvc := service.NewAuthorizationService(assignments, scores, roster, logr)
	scheduleSvc := service.NewScheduleService(windows, nil, logr, nil)
	scoreSvc := service.NewScoreService(scores, authzSvc, scheduleSvc, cacheSvc, metricsSvc, nil, logr)
	exportSvc := service.NewExportService(scores, authzSvc, nil, nil, logr)
	assignmentSvc := service.NewAssignmentService(assignments, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		sw := sweeper.New(func(ctx context.Context, now time.Time) int {
			start := time.Now()
			locked := scheduleSvc.SweepAndLock(ctx, now)
			metricsSvc.ObserveSweep(locked, time.Since(start))
			return locked
		}, sweeper.Config{Interval: cfg.Sweep.Interval, Logger: logr})
		sw.Start(ctx)
		defer sw.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	scoreHandler := handler.NewScoreHandler(scoreSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, authzSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)

	teacher := authed.Group("", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), middleware.RequireTeacherIdentity())
	teacher.GET("/scores", scoreHandler.ListMine)
	teacher.POST("/scores", scoreHandler.Create)
	teacher.GET("/scores/class", scoreHandler.ListClass)
	teacher.GET("/scores/class/average", scoreHandler.ClassAverage)
	teacher.POST("/scores/batch", scoreHandler.BatchCreate)
	teacher.PUT("/scores/batch", scoreHandler.BatchUpdate)
	teacher.GET("/scores/:id", scoreHandler.Get)
	teacher.PUT("/scores/:id", scoreHandler.Update)
	teacher.DELETE("/scores/:id", scoreHandler.Delete)
	teacher.GET("/schedules", scheduleHandler.List)
	teacher.GET("/schedules/status", scheduleHandler.Status)
	teacher.GET("/schedules/active", scheduleHandler.Active)
	teacher.GET("/assignments/classes", assignmentHandler.MyClasses)
	if cfg.Exports.Enabled {
		teacher.GET("/scores/export", exportHandler.ExportMine)
		teacher.GET("/scores/export/class", exportHandler.ExportClass)
	}

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/assignments", assignmentHandler.List)
	admin.POST("/assignments", assignmentHandler.Create)
	admin.DELETE("/assignments/:id", assignmentHandler.Deactivate)
	admin.POST("/schedules", scheduleHandler.Create)
	admin.PUT("/schedules/:id", scheduleHandler.Update)
	admin.DELETE("/schedules/:id", scheduleHandler.Delete)
	admin.POST("/schedules/:id/lock", scheduleHandler.Lock)
	if cfg.Exports.Enabled {
		admin.GET("/scores/export", exportHandler.ExportAll)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

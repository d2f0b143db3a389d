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

	"github.com/covelotage/service-matching/internal/application"
	"github.com/covelotage/service-matching/internal/clients/ors"
	"github.com/covelotage/service-matching/internal/config"
	"github.com/covelotage/service-matching/internal/events"
	"github.com/covelotage/service-matching/internal/handler"
	"github.com/covelotage/service-matching/internal/platform/auth"
	"github.com/covelotage/service-matching/internal/platform/database"
	"github.com/covelotage/service-matching/internal/platform/health"
	"github.com/covelotage/service-matching/internal/platform/kafka"
	"github.com/covelotage/service-matching/internal/platform/logger"
	"github.com/covelotage/service-matching/internal/platform/middleware"
	"github.com/covelotage/service-matching/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "service-matching"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.Connect(cfg.DBConfig.DSN(), zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.RouteModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute, 7*24*time.Hour)

	producer := kafka.NewProducer(cfg.KafkaBrokers, zapLogger)
	defer producer.Close()

	planner, err := ors.NewClient(cfg.ORSBaseURL, cfg.ORSAPIKey)
	if err != nil {
		zapLogger.Fatal("failed to create routing client", zap.Error(err))
	}

	routeRepo := repository.NewGormRouteRepository(db)
	routeService := application.NewRouteService(routeRepo, planner, producer, zapLogger)
	matchService := application.NewMatchService(routeRepo, cfg.MatchThreshold, zapLogger)

	userConsumer := events.NewUserEventConsumer(cfg.KafkaBrokers, serviceName+"-user-events", routeService, zapLogger)
	defer userConsumer.Close()

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	go func() {
		if err := userConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("user event consumer stopped", zap.Error(err))
		}
	}()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("")
	handler.NewRouteHandler(routeService).RegisterRoutes(api, jwtManager)
	handler.NewMatchHandler(matchService).RegisterRoutes(api, jwtManager)
	handler.NewAdminRouteHandler(routeService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	cancelConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}

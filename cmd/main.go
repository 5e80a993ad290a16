package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/climatehub/climate_incident_hub/internal/config"
	v1 "github.com/climatehub/climate_incident_hub/internal/handler/http/v1"
	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/repository"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/climatehub/climate_incident_hub/internal/webhook"
	"github.com/climatehub/climate_incident_hub/pkg/logger"
	"github.com/climatehub/climate_incident_hub/pkg/postgres"
	redisclient "github.com/climatehub/climate_incident_hub/pkg/redis"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Climate Incident Hub API
// @version 1.0
// @description Crowd-reporting backend for climate incidents with a district-scoped admin console.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// seedDemoIncidents наполняет пустое хранилище демонстрационными инцидентами
func seedDemoIncidents(ctx context.Context, repo service.IncidentRepository, log *logrus.Logger) {
	existing, err := repo.ListAll(ctx)
	if err != nil || len(existing) > 0 {
		return
	}

	now := time.Now().UTC()
	seeds := []*models.Incident{
		{
			Type:        "Flood",
			Severity:    models.SeverityCritical,
			Description: "Heavy flooding observed near the river bank. Water levels rising rapidly.",
			Lat:         51.505,
			Lng:         -0.09,
			District:    "Delhi",
			State:       models.DefaultState,
			ReportedBy:  "System",
			Phone:       models.DefaultPhone,
			Status:      models.StatusOpen,
			Timestamp:   now.Add(-2 * time.Hour),
		},
		{
			Type:        "Heatwave",
			Severity:    models.SeverityHigh,
			Description: "Extreme heat warning in effect. Temperature recorded at 42°C.",
			Lat:         48.8566,
			Lng:         2.3522,
			District:    "Mumbai",
			State:       models.DefaultState,
			ReportedBy:  "System",
			Phone:       models.DefaultPhone,
			Status:      models.StatusOpen,
			Timestamp:   now.Add(-5 * time.Hour),
		},
		{
			Type:        "Storm",
			Severity:    models.SeverityMedium,
			Description: "Severe thunderstorm with high winds causing tree damage.",
			Lat:         40.7128,
			Lng:         -74.0060,
			District:    "Delhi",
			State:       models.DefaultState,
			ReportedBy:  "System",
			Phone:       models.DefaultPhone,
			Status:      models.StatusResolved,
			Timestamp:   now.Add(-20 * time.Hour),
		},
	}

	// Старейшие добавляются первыми, чтобы сохранить порядок "новые сверху"
	for i := len(seeds) - 1; i >= 0; i-- {
		seeds[i].ID = uuid.New()
		if err := repo.Create(ctx, seeds[i]); err != nil {
			log.WithError(err).Warn("Failed to seed demo incident")
		}
	}
	log.WithField("count", len(seeds)).Info("Seeded demo incidents")
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Выбор хранилища: Postgres при заданном DATABASE_URL, иначе память процесса
	var incidentRepo service.IncidentRepository
	if cfg.DatabaseURL != "" {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}

		dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")

		incidentRepo = repository.NewPostgresIncidentRepository(dbpool)
	} else {
		log.Info("DATABASE_URL is not set, using in-memory incident store")
		incidentRepo = repository.NewMemoryIncidentRepository()
	}

	// Издатель вебхуков: Redis-очередь при заданном REDIS_ADDR, иначе заглушка
	var webhookPublisher webhook.WebhookPublisher = webhook.NewNoopPublisher()
	if cfg.RedisAddr != "" {
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")

		webhookPublisher = webhook.NewRedisWebhookPublisher(redisClient)

		// Инициализация и запуск воркера вебхуков
		webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
		webhookWorker.Start(ctx)
	}

	// Демо-данные
	if cfg.SeedDemoData {
		seedDemoIncidents(ctx, incidentRepo, log)
	}

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, log, webhookPublisher)
	authService, err := service.NewAuthService(cfg, log)
	if err != nil {
		log.Fatalf("Failed to init auth service: %v", err)
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, authService, log)

	// Настройка Gin роутера
	router := gin.Default()
	handler.RegisterRoutes(router.Group(""))

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}

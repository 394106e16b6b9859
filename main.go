package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pkgadmin/internal/config"
	"pkgadmin/internal/handlers"
	"pkgadmin/internal/logging"
	"pkgadmin/internal/models"
	"pkgadmin/internal/repositories"
	"pkgadmin/internal/services"
	"pkgadmin/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flush, err := logging.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	// --- Repository ---
	repo, closeDB, err := openRepository(cfg)
	if err != nil {
		zap.S().Fatalf("Failed to open %s repository: %v", cfg.DBDriver, err)
	}
	defer closeDB()

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			zap.S().Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumePackageEvents(rabbitmq.LogPackageEvent); err != nil {
			zap.S().Errorf("Failed to start package event consumer: %v", err)
		}
	} else {
		zap.S().Info("RABBITMQ_URL not set, package events are not published")
	}

	app := newApp(repo, publisher, mqClient != nil)

	// --- Start HTTP Server ---
	zap.S().Infof("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			zap.S().Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	zap.S().Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zap.S().Errorf("Error during Fiber shutdown: %v", err)
	}
	zap.S().Info("Server gracefully stopped")
}

// newApp wires handlers, services and the health endpoint onto a fiber app.
func newApp(repo repositories.PackageRepository, publisher services.EventPublisher, brokerConnected bool) *fiber.App {
	packageService := services.NewPackageService(repo, publisher)
	packageHandler := handlers.NewPackageHandler(packageService)

	app := fiber.New(fiber.Config{
		AppName:     "packages-server",
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	api := app.Group("/api")
	packageHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": brokerConnected,
		})
	})
	return app
}

// openRepository picks the storage backend named by DB_DRIVER.
func openRepository(cfg config.Config) (repositories.PackageRepository, func(), error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMemory:
		repo := repositories.NewMockPackageRepository()
		seedPackages(repo)
		return repo, func() {}, nil
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := repositories.NewGORMPackageRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return repo, closeDB, nil
}

// seedPackages populates the in-memory repository with some initial data.
func seedPackages(repo repositories.PackageRepository) {
	price := func(v float64) *float64 { return &v }
	text := func(v string) *string { return &v }
	order := func(v int) *int { return &v }

	pkgs := []models.Package{
		{Title: "الباقة الأساسية", Description: "استضافة مشتركة", Price: price(99), DeliveryTime: text("يوم واحد"), Features: []string{"SSL", "بريد إلكتروني"}, Category: text("استضافة"), IsActive: true, DisplayOrder: order(1)},
		{Title: "الباقة المتقدمة", Description: "خادم افتراضي خاص", Price: price(349.5), DeliveryTime: text("3 أيام"), Features: []string{"SSL", "نسخ احتياطي يومي"}, Category: text("خوادم"), IsActive: true, DisplayOrder: order(2)},
		{Title: "الدعم الفني", Description: "إدارة الخادم شهرياً", Features: []string{}, IsActive: false},
	}
	for i := range pkgs {
		if err := repo.Create(&pkgs[i]); err != nil {
			zap.S().Warnf("Error seeding package %s: %v", pkgs[i].Title, err)
		}
	}
}

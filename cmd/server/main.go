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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SoundHire-Cloud/service-booking/internal/application"
	"github.com/SoundHire-Cloud/service-booking/internal/config"
	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/settings"
	bookingEvents "github.com/SoundHire-Cloud/service-booking/internal/events"
	"github.com/SoundHire-Cloud/service-booking/internal/handler"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/database"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/health"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/kafka"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/logger"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/middleware"
	"github.com/SoundHire-Cloud/service-booking/internal/repository"
	"github.com/SoundHire-Cloud/service-booking/internal/repository/memory"
	"github.com/SoundHire-Cloud/service-booking/migrations"
)

const serviceName = "service-booking"

// stores groups the repositories behind one storage backend.
type stores struct {
	db       *gorm.DB
	bookings bookingDomain.BookingRepository
	packages catalog.PackageRepository
	gear     catalog.GearRepository
	settings settings.Repository
	tx       application.Transactor
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.Storage),
		zap.String("availability_policy", cfg.AvailabilityPolicy),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	policy, err := bookingDomain.NewAvailabilityPolicy(cfg.AvailabilityPolicy)
	if err != nil {
		log.Fatal("invalid availability policy", zap.Error(err))
	}
	pricingStrategy := bookingDomain.NewDailyRatePricing()

	// Kafka is optional; without it no events are published or consumed.
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		st.bookings,
		st.packages,
		st.settings,
		st.tx,
		policy,
		pricingStrategy,
		publisher,
		log,
	)
	catalogService := application.NewCatalogService(st.packages, st.gear, cfg.Currency, log)
	settingsService := application.NewSettingsService(st.settings, cfg.Currency, log)

	// Start payment event consumer in a goroutine
	if cfg.KafkaConfig.Enabled {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		paymentConsumer := bookingEvents.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log,
		)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer")
			if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	healthHandler := health.NewHandler(st.db, serviceName)
	healthHandler.RegisterRoutes(router)

	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminHandler(bookingService, catalogService, settingsService).RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

// openStorage wires the configured backend. Postgres is migrated before use;
// the memory backend is seeded with the demo catalog.
func openStorage(ctx context.Context, cfg *config.ServiceConfig, log *zap.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore(cfg.Currency)
		if err := store.SeedDemoCatalog(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed demo catalog: %w", err)
		}
		log.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			bookings: store.Bookings(),
			packages: store.Packages(),
			gear:     store.Gear(),
			settings: store.Settings(),
			tx:       store.Transactor(),
		}, nil
	}

	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.GearModel{},
			&repository.PackageModel{},
			&repository.PackageGearModel{},
			&repository.BookingModel{},
			&repository.SettingsModel{},
		); err != nil {
			return nil, fmt.Errorf("failed to run auto-migration: %w", err)
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), migrations.FS, log); err != nil {
			return nil, err
		}
	}

	return &stores{
		db:       db,
		bookings: repository.NewGormBookingRepository(db),
		packages: repository.NewGormPackageRepository(db),
		gear:     repository.NewGormGearRepository(db),
		settings: repository.NewGormSettingsRepository(db, cfg.Currency),
		tx:       repository.NewGormTransactor(db),
	}, nil
}

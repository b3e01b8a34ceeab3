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
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hotelbooking/service-booking/internal/application"
	"github.com/hotelbooking/service-booking/internal/config"
	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	bookingEvents "github.com/hotelbooking/service-booking/internal/events"
	"github.com/hotelbooking/service-booking/internal/handler"
	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
	"github.com/hotelbooking/service-booking/internal/platform/database"
	"github.com/hotelbooking/service-booking/internal/platform/health"
	"github.com/hotelbooking/service-booking/internal/platform/kafka"
	"github.com/hotelbooking/service-booking/internal/platform/logger"
	"github.com/hotelbooking/service-booking/internal/platform/metrics"
	"github.com/hotelbooking/service-booking/internal/platform/middleware"
	"github.com/hotelbooking/service-booking/internal/repository"
)

const serviceName = "service-hotel-booking"

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

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	metrics.Register()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.Issuer, cfg.JWTConfig.AccessTTL)

	// Initialize cache
	checks := map[string]health.Checker{"database": dbCheck(db)}
	var appCache cache.Cache = cache.NopCache{}
	if cfg.RedisConfig.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		redisCache := cache.NewRedisCache(client, cfg.RedisConfig.KeyPrefix, cfg.RedisConfig.DefaultTTL, cache.DefaultTTLs)
		checks["redis"] = redisCache
		appCache = redisCache
		log.Info("redis cache enabled", zap.String("addr", cfg.RedisConfig.Addr))
	} else {
		log.Info("redis not configured, caching disabled")
	}
	defer func() { _ = appCache.Close() }()

	// Initialize Kafka producer
	var publisher kafka.EventPublisher = kafka.NopPublisher{}
	if cfg.KafkaConfig.Enabled() {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Info("kafka not configured, booking events disabled")
	}

	// Initialize repositories
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	amenityTypeRepo := repository.NewGormAmenityTypeRepository(db)
	serviceTypeRepo := repository.NewGormServiceTypeRepository(db)
	roomAmenityRepo := repository.NewGormRoomAmenityRepository(db)
	serviceRequestRepo := repository.NewGormServiceRequestRepository(db)

	// Initialize application services
	clock := application.Clock(application.SystemClock)
	bookingService := application.NewBookingService(
		bookingRepo,
		roomRepo,
		bookingDomain.NewNightlyPricingStrategy(),
		publisher,
		cfg.KafkaConfig.Topic,
		appCache,
		clock,
		log,
	)
	roomService := application.NewRoomService(roomRepo, bookingRepo, appCache, clock, log)
	amenityTypeService := application.NewCatalogService(amenityTypeRepo, appCache, log)
	serviceTypeService := application.NewCatalogService(serviceTypeRepo, appCache, log)
	roomAmenityService := application.NewRoomAmenityService(roomAmenityRepo, roomRepo, amenityTypeRepo, appCache, log)
	serviceRequestService := application.NewServiceRequestService(serviceRequestRepo, bookingRepo, serviceTypeRepo, appCache, clock, log)

	// Initialize and start the cache invalidation consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaConfig.Enabled() {
		invalidationConsumer := bookingEvents.NewCacheInvalidationConsumer(
			cfg.KafkaConfig.Brokers,
			replicaGroupID(cfg.KafkaConfig.GroupPrefix),
			cfg.KafkaConfig.Topic,
			bookingService,
			log,
		)
		defer func() { _ = invalidationConsumer.Close() }()

		go func() {
			log.Info("starting cache invalidation consumer")
			if err := invalidationConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("cache invalidation consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, checks)
	healthHandler.RegisterRoutes(router)

	// Register routes
	authMW := middleware.AuthMiddleware(jwtManager, cfg.JWTConfig.AdminRole)
	handler.NewRoomHandler(roomService).RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewCatalogHandler(amenityTypeService, "amenity-types").RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewCatalogHandler(serviceTypeService, "service-types").RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewRoomAmenityHandler(roomAmenityService).RegisterRoutes(&router.RouterGroup, authMW)
	handler.NewServiceRequestHandler(serviceRequestService).RegisterRoutes(&router.RouterGroup, authMW)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

func dbCheck(db *gorm.DB) health.Checker {
	return health.CheckFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

// replicaGroupID gives each replica its own consumer group so every replica
// receives every booking event.
func replicaGroupID(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()
	}
	return prefix + "hotel-booking-cache-" + host
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"galaxia/internal/cache"
	"galaxia/internal/config"
	"galaxia/internal/database"
	"galaxia/internal/handlers"
	"galaxia/internal/middleware"
	"galaxia/internal/repositories"
	"galaxia/internal/services"
	"galaxia/internal/web"
	"galaxia/pkg/logger"
	"galaxia/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger.New(cfg.LogLevel, cfg.LogPretty)

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Info().Str("port", cfg.Port).Str("driver", cfg.DatabaseDriver).Str("env", cfg.Env).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// NewApp wires storage, cache, events, services and handlers into a Fiber app.
// The returned cleanup releases every connection NewApp opened.
func NewApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("error during cleanup")
			}
		}
	}

	// --- Initialize Repositories ---
	var (
		userRepo repositories.UserRepository
		postRepo repositories.PostRepository
	)
	if cfg.DatabaseDriver == database.DriverMemory {
		userRepo = repositories.NewMemoryUserRepository()
		postRepo = repositories.NewMemoryPostRepository()
	} else {
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, cleanup, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, sqlDB.Close)
		}
		if err := database.Migrate(db); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		postRepo = repositories.NewGORMPostRepository(db)
	}

	// --- Cache and events are optional ---
	userCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if userCache != nil {
		closers = append(closers, userCache.Close)
	}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, domain events disabled")
		} else {
			closers = append(closers, mqClient.Close)
			events = mqClient
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
				log.Warn().Err(err).Msg("failed to start event consumer")
			}
		}
	}

	// --- Initialize Services ---
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	userService := services.NewUserService(userRepo, hasher, userCache, events)
	authService := services.NewAuthService(userRepo, hasher)
	wallService := services.NewWallService(postRepo, events)

	renderer, err := web.NewRenderer()
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "galaxia",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(middleware.RequestID(), middleware.Logging(), recover.New())

	// --- API Routes ---
	api := app.Group("/api")
	api.Get("/health", handlers.HandleHealth)
	handlers.NewUserHandler(userService, cfg.DefaultPerPage, cfg.MaxPerPage).RegisterRoutes(api)
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewWallHandler(wallService).RegisterRoutes(api)
	if cfg.Env == "test" {
		handlers.NewResetHandler(userService, wallService).RegisterRoutes(api)
	}

	// --- Pages ---
	handlers.NewPagesHandler(renderer).RegisterRoutes(app)

	return app, cleanup, nil
}

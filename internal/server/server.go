package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamwork/internal/availability"
	"teamwork/internal/config"
	"teamwork/internal/database"
	"teamwork/internal/handlers"
	"teamwork/internal/memstore"
	"teamwork/internal/middlewares"
	"teamwork/internal/repositories"
	"teamwork/internal/routes"
	"teamwork/internal/services"
)

// NewServer wires storage, services and routes. The returned cleanup func
// releases the database pool.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*http.Server, func(), error) {
	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var finder services.AvailabilityFunc = services.NoAvailability
	if cfg.AvailabilityURL != "" {
		finder = availability.NewClient(cfg.AvailabilityURL, cfg.AvailabilityTimeout).Find
	} else {
		logger.Warn("AVAILABILITY_URL not set, meeting scheduling will always report no availability")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := NewRouter(cfg, store, finder, logger)

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, cleanup, nil
}

// NewRouter builds the gin engine around an already opened store.
func NewRouter(cfg *config.Config, store repositories.Store, finder services.AvailabilityFunc, logger *zap.Logger) *gin.Engine {
	// Dependency injection
	projectService := services.NewProjectService(store, finder, logger)
	projectHandler := handlers.NewProjectHandler(projectService, logger)
	userHandler := handlers.NewUserHandler(projectService)

	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		corsCfg.ExposeHeaders = []string{"X-Request-ID"}
		router.Use(cors.New(corsCfg))
	}

	routes.RegisterRoutes(router, cfg.AccessTokenSecret, userHandler, projectHandler)
	return router
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.Store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memstore.New()
		if err := store.LoadSeedFile(ctx, cfg.MemorySeedFile); err != nil {
			return nil, nil, err
		}
		logger.Warn("using in-memory storage, data is lost on restart", zap.String("seed", cfg.MemorySeedFile))
		return store, func() {}, nil
	}

	if err := database.EnsureDatabaseExists(ctx, cfg.Database, logger); err != nil {
		return nil, nil, err
	}

	pool, err := database.Connect(ctx, database.DSN(cfg.Database), logger)
	if err != nil {
		return nil, nil, err
	}

	if err := database.RunMigrations(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repositories.NewPgStore(pool), pool.Close, nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/okanuzun/installment-display-service/internal/catalog"
	"github.com/okanuzun/installment-display-service/internal/config"
	"github.com/okanuzun/installment-display-service/internal/database"
	"github.com/okanuzun/installment-display-service/internal/handler"
	"github.com/okanuzun/installment-display-service/internal/middleware"
	"github.com/okanuzun/installment-display-service/internal/provider"
	"github.com/okanuzun/installment-display-service/internal/ratelimit"
	"github.com/okanuzun/installment-display-service/internal/render"
	"github.com/okanuzun/installment-display-service/internal/repository"
	"github.com/okanuzun/installment-display-service/internal/service"
	"github.com/okanuzun/installment-display-service/internal/store"
)

// cacheStore is what both TTL store implementations provide.
type cacheStore interface {
	store.KeyValue
	Ping(ctx context.Context) error
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	var kv cacheStore
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		kv = redisStore
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis store")
	} else {
		kv = store.NewMemoryStore()
		log.Info().Msg("using in-memory store")
	}

	settingsRepo := repository.NewSettingsRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	svc := service.NewInstallmentService(
		settingsRepo,
		productRepo,
		provider.NewClient(cfg.ProviderTimeout),
		ratelimit.New(kv),
		render.NewRenderer(cfg.AssetsBaseURL, catalog.FormatTRY),
		kv,
		cfg.ProviderLiveURL,
		cfg.ProviderSandboxURL,
	)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool, kv)
	router.GET("/health", healthHandler.Health)

	installmentHandler := handler.NewInstallmentHandler(svc)
	api := router.Group("/api/v1")
	{
		api.POST("/installments", installmentHandler.GetInstallmentInfo)
		api.GET("/installments/table", installmentHandler.GetInstallmentTable)
		api.POST("/installments/dynamic", installmentHandler.GetDynamicOptions)
		api.POST("/credentials/test", installmentHandler.TestCredentials)
		api.GET("/credentials/status", installmentHandler.GetConnectionStatus)
		api.GET("/settings", installmentHandler.GetSettings)
		api.PUT("/settings", installmentHandler.UpdateSettings)
		api.GET("/styles", installmentHandler.GetStyles)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

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

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/localdeals/internal/adapters/cache"
	"github.com/zatekoja/localdeals/internal/adapters/database"
	"github.com/zatekoja/localdeals/internal/adapters/providers/geolocation"
	"github.com/zatekoja/localdeals/internal/adapters/storage"
	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/api/handlers"
	"github.com/zatekoja/localdeals/internal/api/middleware"
	"github.com/zatekoja/localdeals/internal/api/routes"
	"github.com/zatekoja/localdeals/internal/application/loaders"
	"github.com/zatekoja/localdeals/internal/application/services"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/redis"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/s3"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	"github.com/zatekoja/localdeals/pkg/config"
	"github.com/zatekoja/localdeals/pkg/datetime"
	"github.com/zatekoja/localdeals/pkg/secrets"
	"github.com/zatekoja/localdeals/pkg/validator"
)

func main() {
	if result, err := secrets.Apply(context.Background(), secrets.ConfigFromEnv(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load secrets from Vault: %v\n", err)
		os.Exit(1)
	} else if len(result.Loaded) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %d secrets from Vault path %s\n", len(result.Loaded), result.Path)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment, cfg.Server.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	loc, err := datetime.LoadLocation(cfg.Deals.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load deal time zone")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	cacheProvider := cache.NewNoopAdapter()
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
	}

	imageStorage := storage.NewNoopImageStorage()
	if cfg.Storage.Enabled() {
		s3Client, err := s3.NewClient(&cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("Object storage unavailable, deals are served without images")
		} else {
			imageStorage = storage.NewS3ImageStorage(s3Client, cfg.Storage.PublicURL, storage.Buckets{
				Deals:          cfg.Storage.DealBucket,
				Profiles:       cfg.Storage.ProfileBucket,
				DealerProfiles: cfg.Storage.DealerProfileBucket,
			})
		}
	}

	var geocoder providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "nominatim":
		geocoder = geolocation.NewNominatimProvider(cfg.Geolocation.BaseURL, cfg.Geolocation.UserAgent, cacheProvider, nil)
	default:
		log.Warn().Str("provider", cfg.Geolocation.Provider).Msg("Using mock geolocation provider")
		geocoder = geolocation.NewMockGeolocationProvider()
	}

	dealAdapter := database.NewDealAdapter(pgClient)
	hotDealAdapter := database.NewHotDealAdapter(pgClient)
	accountAdapter := database.NewAccountAdapter(pgClient)
	ratingAdapter := database.NewRatingAdapter(pgClient)
	categoryAdapter := database.NewCachedCategoryAdapter(database.NewCategoryAdapter(pgClient), cacheProvider)

	v := validator.New()
	enricher := loaders.NewEnricher(imageStorage, cfg.Deals.ImageFanOut)

	dealService := services.NewDealService(dealAdapter, hotDealAdapter, cacheProvider, enricher, v, metrics, services.DealServiceConfig{
		Location:        loc,
		TopDefaultLimit: cfg.Deals.TopDefaultLimit,
		TopMaxLimit:     cfg.Deals.TopMaxLimit,
	})
	accountService := services.NewAccountService(accountAdapter, geocoder, imageStorage, v)
	dealerService := services.NewDealerService(accountAdapter, ratingAdapter, dealService, imageStorage, v)
	categoryService := services.NewCategoryService(categoryAdapter)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	cookies := auth.CookieSettings{Name: cfg.Auth.CookieName, Secure: cfg.Auth.SecureCookie}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	rateLimiter.StartCleanup(5*time.Minute, stopCleanup)

	router := routes.NewRouter(routes.Handlers{
		Accounts:    handlers.NewAccountHandler(accountService, tokens, cookies),
		Deals:       handlers.NewDealHandler(dealService),
		Dealers:     handlers.NewDealerHandler(dealerService),
		Categories:  handlers.NewCategoryHandler(categoryService),
		Geolocation: handlers.NewGeolocationHandler(geocoder),
	}, routes.Options{
		Tokens:         tokens,
		CookieName:     cfg.Auth.CookieName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Images:         imageStorage,
		ImageFanOut:    cfg.Deals.ImageFanOut,
		RateLimiter:    rateLimiter,
		Cache:          middleware.NewCacheMiddleware(cacheProvider, metrics),
		Metrics:        metrics,
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}

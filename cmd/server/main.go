package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prudhvinik1/deviceprov/internal/appkey"
	"github.com/prudhvinik1/deviceprov/internal/artifact"
	"github.com/prudhvinik1/deviceprov/internal/config"
	"github.com/prudhvinik1/deviceprov/internal/database"
	"github.com/prudhvinik1/deviceprov/internal/handlers"
	"github.com/prudhvinik1/deviceprov/internal/identity"
	"github.com/prudhvinik1/deviceprov/internal/logger"
	"github.com/prudhvinik1/deviceprov/internal/metrics"
	ownerauth "github.com/prudhvinik1/deviceprov/internal/middleware"
	"github.com/prudhvinik1/deviceprov/internal/repositories"
	"github.com/prudhvinik1/deviceprov/internal/services"
	"github.com/prudhvinik1/deviceprov/internal/tokens"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()

	health := map[string]handlers.Pinger{}

	// Device registry: postgres when configured, in-memory otherwise
	var registry repositories.DeviceRegistry
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatalw("failed to create postgres pool", "error", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatalw("failed to migrate database", "error", err)
		}
		registry = repositories.NewPostgresDeviceRegistry(pool)
		health["postgres"] = pool.Ping
	} else {
		log.Warnw("DATABASE_URL not set, using in-memory device registry")
		registry = repositories.NewMemoryDeviceRegistry()
	}

	// Application key store: redis when configured, in-memory otherwise
	var keyRepo repositories.ApplicationKeyRepository
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatalw("failed to create redis client", "error", err)
		}
		defer redisClient.Close()

		keyRepo = repositories.NewRedisApplicationKeyRepository(redisClient)
		health["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		log.Warnw("REDIS_URL not set, using in-memory application key store")
		keyRepo = repositories.NewMemoryApplicationKeyRepository()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	keyManager := services.NewKeyManager(keyRepo)
	issuer := tokens.NewIssuer(keyManager, cfg.JWTSecret, cfg.TokenIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	keyCache := appkey.NewCache(keyManager, appkey.WithLogger(log), appkey.WithObserver(m))

	var packagerOpts []artifact.Option
	if cfg.TemplateDir != "" {
		packagerOpts = append(packagerOpts, artifact.WithTemplates(os.DirFS(cfg.TemplateDir)))
	}

	enrollment := services.NewEnrollmentService(
		services.EnrollmentConfig{
			DeviceType:    cfg.DeviceType,
			KeyType:       cfg.AppKeyType,
			AdminUsername: cfg.AdminUsername,
			DefaultTenant: cfg.DefaultTenant,
		},
		identity.NewAllocator(),
		keyCache,
		issuer,
		registry,
		artifact.NewPackager(packagerOpts...),
		services.WithLogger(log),
		services.WithMetrics(m),
	)

	// Initialize HTTP Server
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", handlers.Health(health))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(ownerauth.OwnerAuth(issuer, cfg.DefaultTenant))
		handlers.NewDeviceHandler(enrollment, log).Register(r)
	})

	// Start Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Infow("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorw("graceful shutdown failed", "error", err)
		}
	}()

	log.Infow("starting server",
		"port", cfg.ServerPort,
		"device_type", cfg.DeviceType,
		"env", cfg.Env,
	)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalw("server error", "error", err)
	}

	log.Infow("server stopped gracefully")
}

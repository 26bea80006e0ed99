package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tokopintar/catalog-backend/api/routes"
	"github.com/tokopintar/catalog-backend/internal/identity"
	"github.com/tokopintar/catalog-backend/internal/ingest"
	product "github.com/tokopintar/catalog-backend/internal/products"
	"github.com/tokopintar/catalog-backend/pkg/auth/session"
	"github.com/tokopintar/catalog-backend/pkg/config"
	"github.com/tokopintar/catalog-backend/pkg/db"
	"github.com/tokopintar/catalog-backend/pkg/imagekit"
	"github.com/tokopintar/catalog-backend/pkg/logger"
	"github.com/tokopintar/catalog-backend/pkg/metrics"
	"github.com/tokopintar/catalog-backend/pkg/migrate"
	"github.com/tokopintar/catalog-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	imageKitClient, err := imagekit.NewClient(cfg.ImageKit, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap imagekit client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	identityService, err := identity.NewService(identity.ServiceParams{
		UserRepo:       identity.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestMetrics := metrics.NewIngestMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	intentRepo := ingest.NewIntentRepository(dbClient.DB())
	ingestService, err := ingest.NewService(imageKitClient, intentRepo, ingestMetrics, cfg.Ingest, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, ingestService, intentRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	router := routes.NewRouter(routes.RouterParams{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisPinger:     redisClient,
		ImageKitPinger:  imageKitClient,
		IdentityService: identityService,
		ProductService:  productService,
		RateLimiter:     redisClient,
		MetricsRegistry: registry,
		HTTPMetrics:     httpMetrics,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lctx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(lctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(lctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(lctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(lctx, "api server shut down gracefully")
}

// @title           Vendor Admin API
// @version         1.0
// @description     Authentication, role-gated vendor administration and license approval.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/vendorsaathi/vendor-admin/internal/api"
	"github.com/vendorsaathi/vendor-admin/internal/api/handler"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
	"github.com/vendorsaathi/vendor-admin/internal/core/service"
	"github.com/vendorsaathi/vendor-admin/internal/infrastructure/db/redis"
	"github.com/vendorsaathi/vendor-admin/internal/pkg/config"
	"github.com/vendorsaathi/vendor-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "vendor-admin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1. Load configuration; a missing JWT_SECRET stops the process here.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// 2. Initialize structured logger
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "vendor-admin",
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("starting vendor admin server")

	// 3. Open the store
	store, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	probes := map[string]handler.Pinger{"store": store}

	// 4. Optional Redis cache for the vendor listing
	var vendorCache ports.VendorCache = service.NopVendorCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		vendorCache = redis.NewVendorCache(rdb, cfg.Redis.VendorTTL)
		probes["redis"] = pingRedis(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("vendor cache enabled")
	}

	// 5. Initialize services
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		store,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		vendorCache,
		service.AuthOptions{UnifyLoginErrors: cfg.Auth.UnifyLoginErrors},
		logger.Component("auth"),
	)
	vendorService := service.NewVendorService(store.Repositories().Vendors, vendorCache, logger.Component("vendors"))
	licenseService := service.NewLicenseService(store, cfg.Store.TxTimeout, logger.Component("licenses"))

	// 6. Setup HTTP routes
	e, err := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Tokens:   tokens,
		Vendors:  vendorService,
		Licenses: licenseService,
		Probes:   probes,
		Log:      logger.Component("http"),
	})
	if err != nil {
		return err
	}

	// 7. Start HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
	return nil
}

func pingRedis(rdb *goredis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/migrate"
	"storefront/internal/obs"
	"storefront/internal/remote"
	"storefront/internal/render"
	sessionrepo "storefront/internal/repository/session"
	bannersvc "storefront/internal/service/banner"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[web] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	sessions, checks, closeSessions, err := openSessions(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open session storage: %v", err)
	}
	defer closeSessions()

	client := remote.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	metrics := obs.NewMetrics()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Auth:               client,
		Verifier:           client,
		Sessions:           sessions,
		Carts:              cartsvc.NewRegistry(cfg.SessionTTL),
		CartSvc:            cartsvc.New(client, metrics, logger),
		ProductSvc:         productsvc.New(client),
		CategorySvc:        categorysvc.New(client),
		BannerSvc:          bannersvc.New(client),
		OrderSvc:           ordersvc.New(client),
		Renderer:           render.New(),
		Metrics:            metrics,
		ReadyChecks:        checks,
		CookieSecure:       cfg.CookieSecure,
		CORSOrigins:        cfg.CORSOrigins,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (api %s, sessions %s)", cfg.HTTPAddr, cfg.APIBaseURL, cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// openSessions builds the session repository named by SESSION_BACKEND along
// with readiness checks for the storage it depends on.
func openSessions(ctx context.Context, cfg config.Config, logger *log.Logger) (sessionrepo.Repository, []httpserver.ReadyCheck, func(), error) {
	noop := func() {}
	switch cfg.SessionBackend {
	case "memory", "":
		return sessionrepo.NewMemory(), nil, noop, nil
	case "file":
		repo, err := sessionrepo.NewFile(cfg.SessionDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return repo, nil, noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		check := httpserver.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}}
		return sessionrepo.NewRedis(client, cfg.SessionTTL), []httpserver.ReadyCheck{check}, func() { client.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		if n, err := sessionrepo.PurgeExpired(ctx, pool); err != nil {
			logger.Printf("purge expired sessions: %v", err)
		} else if n > 0 {
			logger.Printf("purged %d expired sessions", n)
		}
		check := httpserver.ReadyCheck{Name: "postgres", Check: pool.Ping}
		return sessionrepo.NewPostgres(pool, cfg.SessionTTL), []httpserver.ReadyCheck{check}, pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

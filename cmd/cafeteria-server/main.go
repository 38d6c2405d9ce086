package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/cafeteria-go/internal/auth"
	"github.com/andreasstove999/cafeteria-go/internal/config"
	"github.com/andreasstove999/cafeteria-go/internal/db"
	"github.com/andreasstove999/cafeteria-go/internal/events"
	"github.com/andreasstove999/cafeteria-go/internal/favorite"
	httpapi "github.com/andreasstove999/cafeteria-go/internal/http"
	"github.com/andreasstove999/cafeteria-go/internal/logging"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/middleware"
	"github.com/andreasstove999/cafeteria-go/internal/order"
	"github.com/andreasstove999/cafeteria-go/internal/sequence"
)

const itemsCacheTTL = 30 * time.Second

func main() {
	config.LoadDotEnv()
	cfg := config.LoadServer()
	logger := logging.New("cafeteria-server", cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("shutdown complete")
}

func run(cfg config.Server, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return err
		}
	}

	// --- cache (optional) ---
	var cache menu.Cache = menu.NopCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, item cache disabled")
		} else {
			cache = menu.NewRedisCache(rdb, itemsCacheTTL, logger)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("item cache enabled")
		}
	}
	items := menu.NewCachedRepository(menu.NewPostgresRepository(pool), cache)

	// --- AMQP (optional) ---
	var notifier order.Notifier
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn().Err(err).Msg("rabbitmq unavailable, order events disabled")
		} else {
			defer conn.Close()
			pub, err := events.NewPublisher(conn, sequence.NewOrderCounter(pool))
			if err != nil {
				return err
			}
			defer pub.Close()
			notifier = pub
			logger.Info().Str("exchange", events.EventsExchange).Msg("order events enabled")
		}
	}

	orders := order.NewService(order.NewPostgresRepository(pool), notifier, items, logger)

	// --- auth ---
	keys, err := auth.NewKeyChecker(cfg.AdminKey)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "change-me" {
		logger.Warn().Msg("JWT_SECRET is the default value; set it outside development")
	}

	// --- HTTP ---
	h := httpapi.NewHandler(httpapi.Deps{
		Logger:       logger,
		Items:        items,
		Orders:       orders,
		Favorites:    favorite.NewPostgresRepository(pool),
		Tokens:       auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		AdminKey:     keys,
		CORSOrigins:  cfg.CORSAllowOrigins,
		LoginLimiter: middleware.NewRateLimiter(cfg.LoginRatePerMinute),
		Ping:         pool.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal")
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

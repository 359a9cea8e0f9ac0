package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"example.com/assettrack/internal/api"
	"example.com/assettrack/internal/auth"
	"example.com/assettrack/internal/cache"
	"example.com/assettrack/internal/config"
	"example.com/assettrack/internal/feed"
	"example.com/assettrack/internal/retry"
	sourcepg "example.com/assettrack/internal/source/postgres"
	httptransport "example.com/assettrack/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "assettrack-api").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	var pageCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		pageCache = cache.NewRedis(client)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis page cache")
	}

	sources := retry.WrapAll(sourcepg.NewSources(pool), retry.Policy{
		MaxAttempts:     cfg.RetryMaxAttempts,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		CallTimeout:     cfg.SourceTimeout,
	})

	feedService := feed.NewService(sources, pageCache, feed.Options{
		MinPageSize: cfg.MinPageSize,
		MaxPageSize: cfg.MaxPageSize,
		WindowCap:   cfg.WindowCap,
		CacheTTL:    cfg.CacheTTL,
	}, logger)

	handler := api.NewHandler(feedService)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	requestLog := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(requestLog(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress).Msg("assettrack api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

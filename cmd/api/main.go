// Package main is the entrypoint for the client account API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/cache"
	"github.com/clientauth/clientauth/internal/config"
	"github.com/clientauth/clientauth/internal/handler"
	"github.com/clientauth/clientauth/internal/metrics"
	"github.com/clientauth/clientauth/internal/middleware"
	"github.com/clientauth/clientauth/internal/repository"
	"github.com/clientauth/clientauth/internal/server"
	"github.com/clientauth/clientauth/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
		ConnectTimeout:  cfg.DBConnectTimeout,
	})
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("database unavailable")
	}
	logger.Info("connected to database")

	cacheClient, err := cache.Open(cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error("invalid Redis configuration",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("redis misconfigured")
	}
	if err := pingCache(ctx, cacheClient, cfg.DBConnectTimeout); err != nil {
		logger.Warn("Redis unreachable; serving profiles from PostgreSQL until it recovers",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
	} else {
		logger.Info("connected to Redis")
	}

	if !cfg.HasJWTSecret() {
		logger.Warn("JWT_SECRET is not set; login will fail and every token will be rejected")
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	recorder, metricsHandler := initMetrics(cfg)

	authService := service.NewAuthService(repo, tokens, logger, recorder)
	clientService := service.NewClientService(repo, cacheClient, cfg.CacheTTL, logger, recorder)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := server.NewRouter(server.RouterConfig{
		Logger:         logger,
		Metrics:        recorder,
		Verifier:       tokens,
		Health:         handler.NewHealthHandler(repo, cacheClient),
		Auth:           handler.NewAuthHandler(authService, logger),
		Clients:        handler.NewClientHandler(clientService, logger),
		MetricsHandler: metricsHandler,
		CORS:           cors,
		Security:       middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		MaxBodySize:    cfg.MaxRequestBodySize,
	})

	srv := server.New(router, server.Options{
		Addr:            ":" + strconv.Itoa(cfg.Port),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"metrics", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initMetrics returns the Prometheus-backed recorder and its /metrics handler,
// or a no-op recorder and nil handler when metrics are disabled.
func initMetrics(cfg *config.Config) (metrics.Recorder, http.Handler) {
	if !cfg.MetricsEnabled {
		return metrics.NewNoop(), nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewCollector(reg), metrics.Handler(reg)
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

type pinger interface {
	Ping(ctx context.Context) error
}

// pingCache bounds the startup probe so an unreachable Redis cannot stall boot.
func pingCache(ctx context.Context, p pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Ping(ctx)
}

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

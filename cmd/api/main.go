package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/akaibo/orderbook/config"
	"github.com/akaibo/orderbook/internal/api/handlers"
	"github.com/akaibo/orderbook/internal/api/routes"
	"github.com/akaibo/orderbook/internal/matching"
	"github.com/akaibo/orderbook/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting order book API server", zap.String("version", "1.0.0"))

	// Build trade storage sinks based on configuration
	sink := buildTradeSink(cfg, log)

	// Create matching engine
	engine := matching.NewEngine(log, sink)
	defer func() {
		if err := engine.Close(); err != nil {
			log.Error("failed to close engine", zap.Error(err))
		}
	}()

	// Create engine holder for dependency injection
	engineHolder := handlers.NewEngineHolder(engine, log)

	// Setup routes with middleware
	handler := routes.SetupRoutes(engineHolder, log)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

// buildTradeSink constructs the external trade sinks based on
// configuration. Returns nil when no sink is enabled; the in-memory ledger
// inside the engine is always authoritative for reads.
func buildTradeSink(cfg *config.Config, log *zap.Logger) storage.TradeStore {
	var sinks []storage.TradeStore

	// Append-only file audit log
	if cfg.Engine.TradeLogEnabled {
		fileStore, err := storage.NewFileTradeStore(cfg.Engine.TradeLogPath)
		if err != nil {
			log.Warn("failed to open trade log, continuing without it",
				zap.String("path", cfg.Engine.TradeLogPath), zap.Error(err))
		} else {
			sinks = append(sinks, fileStore)
			log.Info("trade file log enabled", zap.String("path", cfg.Engine.TradeLogPath))
		}
	}

	// Redis (distributed cache)
	if cfg.Redis.Enabled {
		redisStore, err := storage.NewRedisTradeStore(storage.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxTrades:    cfg.Redis.MaxTrades,
		})
		if err != nil {
			log.Warn("failed to connect to redis, continuing without distributed cache", zap.Error(err))
		} else {
			sinks = append(sinks, redisStore)
			log.Info("redis trade store connected",
				zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		}
	}

	// PostgreSQL (persistent storage)
	if cfg.Database.Enabled {
		pgStore, err := storage.NewPostgresTradeStore(storage.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MinIdleConns:    cfg.Database.MinIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		})
		if err != nil {
			log.Warn("failed to connect to postgres, continuing without persistent storage", zap.Error(err))
		} else {
			sinks = append(sinks, pgStore)
			log.Info("postgres trade store connected",
				zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		}
	}

	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return storage.NewCompositeTradeStore(sinks...)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/db"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/feed"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/guard"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/hub"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/router"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/vote"
)

func main() {
	// Optional .env for local development; a missing file is fine
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the poll store
	pollStore, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("store setup failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Poll store ready", "backend", cfg.StoreBackend)

	// Anti-abuse guard with its background sweep
	abuseGuard := guard.New(guard.Mode(cfg.GuardMode), cfg.RateWindow, cfg.SweepInterval)
	abuseGuard.Start()
	defer abuseGuard.Stop()

	// Broadcast hub and vote processor
	broadcastHub := hub.New()
	processor := vote.NewProcessor(pollStore, abuseGuard, broadcastHub, cfg.StoreTimeout)

	// Optional vote event feed
	if cfg.AmqpURL != "" {
		amqpConn, err := feed.Connect(cfg.AmqpURL)
		if err != nil {
			slog.Error("vote feed setup failed", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		publisher, err := feed.NewPublisher(amqpConn, cfg.AmqpQueue)
		if err != nil {
			slog.Error("vote feed setup failed", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		processor.UseEventSink(publisher)
		slog.Info("Vote event feed enabled", "queue", cfg.AmqpQueue)
	}

	// Create router
	mux := router.NewRouter(pollStore, processor, broadcastHub, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the configured PollStore backend and returns a cleanup
// function for its connections.
func openStore(cfg cliparse.Config) (store.PollStore, func(), error) {
	switch cfg.StoreBackend {
	case cliparse.BackendPostgres, cliparse.BackendSQLite:
		driver := "postgres"
		if cfg.StoreBackend == cliparse.BackendSQLite {
			driver = "sqlite"
		}
		dbConn, err := sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := dbConn.Ping(); err != nil {
			dbConn.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := db.CreateSchema(dbConn); err != nil {
			dbConn.Close()
			return nil, nil, err
		}
		return store.NewSQLStore(dbConn), func() { dbConn.Close() }, nil

	case cliparse.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return store.NewRedisStore(rdb), func() { rdb.Close() }, nil

	case cliparse.BackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

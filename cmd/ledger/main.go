package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mperez230-ship-it/MiniBanco/internal/command"
	"github.com/mperez230-ship-it/MiniBanco/internal/config"
	"github.com/mperez230-ship-it/MiniBanco/internal/external"
	"github.com/mperez230-ship-it/MiniBanco/internal/handler"
	"github.com/mperez230-ship-it/MiniBanco/internal/query"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository/memory"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository/mysql"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository/postgres"
	"github.com/mperez230-ship-it/MiniBanco/shared/events"
	"github.com/mperez230-ship-it/MiniBanco/shared/middleware"
	redisClient "github.com/mperez230-ship-it/MiniBanco/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage (write and read side share one store)
	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	// Redis is optional: it backs the rates cache and, by default, events.
	var redis *redisClient.Client
	if cfg.Redis.Addr != "" {
		redis, err = redisClient.NewClient(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("Redis unavailable, continuing without it: %v", err)
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	publisher, closePublisher := newPublisher(cfg.Events, redis)
	defer closePublisher.Close()

	tokens, err := middleware.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to configure tokens: %v", err)
	}

	// --- CQRS wiring ---
	userCmds := command.NewUserCommandService(store, publisher, command.BootstrapAdmin{
		ID:       cfg.Auth.AdminID,
		Password: cfg.Auth.AdminPassword,
	})

	// Schema and admin are retried in the background so an unready database
	// does not keep the API from serving /health.
	go func() {
		if err := bootstrap(ctx, store, userCmds, 5*time.Second); err != nil {
			log.Printf("Bootstrap abandoned: %v", err)
		}
	}()

	accountCmds := command.NewAccountCommandService(store, publisher)
	transactionCmds := command.NewTransactionCommandService(store, store, publisher)

	userQrys := query.NewUserQueryService(store, tokens)
	accountQrys := query.NewAccountQueryService(store)
	transactionQrys := query.NewTransactionQueryService(store, store)

	var rates external.RateLookup = external.NewRateClient(cfg.External.RatesURL, cfg.External.Timeout)
	if redis != nil {
		rates = external.NewCachedRateLookup(rates, redis.Client, cfg.External.RatesCacheTTL)
	}
	calculator := external.NewCalculatorClient(cfg.External.CalculatorURL, cfg.External.Timeout)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.RouterConfig{
		Users:              handler.NewUserHandler(userCmds, userQrys),
		Accounts:           handler.NewAccountHandler(accountCmds, accountQrys),
		Transactions:       handler.NewTransactionHandler(transactionCmds, transactionQrys),
		External:           handler.NewExternalHandler(rates, calculator),
		Tokens:             tokens,
		TrustDeclaredActor: cfg.Auth.TrustDeclaredActor,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Ledger API starting on port %s (storage=%s, events=%s)", cfg.Port, cfg.Storage.Driver, cfg.Events.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server exited")
}

func openStore(ctx context.Context, cfg config.StorageConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.StorageMySQL:
		store, err := mysql.Open(mysql.Config{
			Host:            cfg.MySQL.Host,
			Port:            cfg.MySQL.Port,
			User:            cfg.MySQL.User,
			Password:        cfg.MySQL.Password,
			DBName:          cfg.MySQL.Database,
			ConnectAttempts: 5,
			LogLevel:        "warn",
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageMemory:
		log.Println("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	default:
		store, err := openPostgres(ctx, cfg.DatabaseURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func openPostgres(ctx context.Context, dsn string, attempts int, interval time.Duration) (*postgres.Store, error) {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var store *postgres.Store
		if store, err = postgres.Open(ctx, dsn); err == nil {
			return store, nil
		}
		if attempt < attempts {
			log.Printf("Failed to connect to Postgres (attempt %d/%d): %v. Retrying in %v", attempt, attempts, err, interval)
			time.Sleep(interval)
		}
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", attempts, err)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newPublisher picks the event sink. Without a reachable broker events are
// dropped; the ledger never depends on them.
func newPublisher(cfg config.EventsConfig, redis *redisClient.Client) (events.Publisher, io.Closer) {
	switch cfg.Backend {
	case config.EventsKafka:
		p := events.NewKafkaPublisher(cfg.KafkaBrokers)
		return p, p
	case config.EventsRedis:
		if redis != nil {
			return events.NewRedisPublisher(redis.Client), nopCloser{}
		}
		log.Println("Events backend is redis but Redis is unavailable; events are disabled")
	}
	return events.NopPublisher{}, nopCloser{}
}

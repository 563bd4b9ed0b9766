// Command ledger-events tails the ledger's Redis streams and logs every event.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mperez230-ship-it/MiniBanco/internal/config"
	"github.com/mperez230-ship-it/MiniBanco/shared/events"
	redisClient "github.com/mperez230-ship-it/MiniBanco/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Redis.Addr == "" {
		log.Fatal("REDIS_ADDR is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redis, err := redisClient.NewClient(ctx, redisClient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    getEnv("EVENTS_GROUP", "ledger-events"),
		Consumer: getEnv("EVENTS_CONSUMER", hostname()),
		Streams:  events.Streams,
		Handler:  logEvent,
	})
	if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Subscriber stopped: %v", err)
	}
}

func logEvent(_ context.Context, stream string, event events.Event) error {
	line, err := describe(event)
	if err != nil {
		return err
	}
	log.Printf("[%s] %s %s", stream, event.Timestamp.Format("2006-01-02T15:04:05Z07:00"), line)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "ledger-events-1"
	}
	return name
}

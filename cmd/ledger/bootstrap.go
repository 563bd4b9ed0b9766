package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

type adminEnsurer interface {
	EnsureBootstrapAdmin(ctx context.Context) error
}

// bootstrap applies the schema and seeds the admin, retrying until both
// succeed or ctx ends. Several instances may run it at once: the schema is
// idempotent and a duplicate admin insert counts as success.
func bootstrap(ctx context.Context, store schemaEnsurer, users adminEnsurer, interval time.Duration) error {
	for attempt := 1; ; attempt++ {
		err := bootstrapOnce(ctx, store, users)
		if err == nil {
			if attempt > 1 {
				log.Printf("Bootstrap succeeded after %d attempts", attempt)
			}
			return nil
		}
		log.Printf("Bootstrap attempt %d failed: %v. Retrying in %v", attempt, err, interval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func bootstrapOnce(ctx context.Context, store schemaEnsurer, users adminEnsurer) error {
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if err := users.EnsureBootstrapAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

package command

import (
	"context"
	"log"
	"time"

	"github.com/mperez230-ship-it/MiniBanco/shared/events"
)

// publishTimeout bounds how long a request that already committed waits on
// the event broker.
var publishTimeout = time.Second

// publish emits an event for state that is already committed. The event
// outlives ctx's cancellation but not publishTimeout. Failures are logged and
// never reach the caller.
func publish(ctx context.Context, publisher events.Publisher, stream, eventType string, data any) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, stream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	rabbit "storefront/internal/infra/rabbitmq"
)

const publishTimeout = 5 * time.Second

// eventPublisher sends events in the background after a write has been
// committed. A failed publish is logged; the write stands.
type eventPublisher struct {
	pub rabbit.PublisherInterface
	wg  sync.WaitGroup
}

func (e *eventPublisher) publish(pattern string, data any) {
	if e.pub == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := e.pub.Publish(ctx, pattern, data); err != nil {
			slog.ErrorContext(ctx, "failed to publish event", "pattern", pattern, "error", err)
			return
		}
		slog.DebugContext(ctx, "event published", "pattern", pattern)
	}()
}

// wait blocks until every started publish has finished.
func (e *eventPublisher) wait() {
	e.wg.Wait()
}

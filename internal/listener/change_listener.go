// internal/listener/change_listener.go
package listener

import (
	"context"
	"log/slog"
	"time"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// ChangeListener keeps cached listings in step with inventory changes made
// outside the sale path, such as imports or manual edits.
type ChangeListener struct {
	feed       ports.ChangeFeed
	listings   ports.ListingService
	backoffMin time.Duration
	backoffMax time.Duration
	logger     *slog.Logger
}

// Option configures a ChangeListener
type Option func(*ChangeListener)

// WithBackoff sets the resubscribe delay bounds
func WithBackoff(floor, ceiling time.Duration) Option {
	return func(l *ChangeListener) {
		l.backoffMin = floor
		l.backoffMax = ceiling
	}
}

// New creates a change listener
func New(feed ports.ChangeFeed, listings ports.ListingService, logger *slog.Logger, opts ...Option) *ChangeListener {
	l := &ChangeListener{
		feed:       feed,
		listings:   listings,
		backoffMin: time.Second,
		backoffMax: time.Minute,
		logger:     logger.With(slog.String("component", "change_listener")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run consumes the change feed until ctx is cancelled. A closed or failed
// subscription is retried with exponential backoff.
func (l *ChangeListener) Run(ctx context.Context) error {
	backoff := l.backoffMin

	for {
		events, err := l.feed.Subscribe(ctx)
		if err != nil {
			l.logger.WarnContext(ctx, "change feed subscribe failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", backoff))
		} else {
			l.logger.InfoContext(ctx, "listening for inventory changes")
			if l.consume(ctx, events) {
				backoff = l.backoffMin
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, l.backoffMax)
	}
}

// consume drains events and reports whether any were received
func (l *ChangeListener) consume(ctx context.Context, events <-chan domain.ChangeEvent) bool {
	received := false
	for {
		select {
		case <-ctx.Done():
			return received
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					l.logger.WarnContext(ctx, "change feed closed")
				}
				return received
			}
			received = true

			shopID := ev.ShopID
			if err := l.listings.Refresh(ctx, &shopID); err != nil {
				l.logger.WarnContext(ctx, "failed to refresh listing on change",
					slog.String("shop_id", shopID.String()),
					slog.String("op", string(ev.Op)),
					slog.String("error", err.Error()))
				continue
			}
			l.logger.DebugContext(ctx, "listing refreshed on change",
				slog.String("shop_id", shopID.String()),
				slog.String("batch_id", ev.BatchID.String()),
				slog.String("op", string(ev.Op)))
		}
	}
}

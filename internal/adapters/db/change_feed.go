// internal/adapters/db/change_feed.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/core/ports"
)

// InventoryChangeChannel is the NOTIFY channel raised by the inventory trigger
const InventoryChangeChannel = "inventory_changes"

const changeFeedBuffer = 64

// ChangeFeed turns LISTEN/NOTIFY payloads into change events
type ChangeFeed struct {
	db           *Database
	channel      string
	reconnectMin time.Duration
	reconnectMax time.Duration
	logger       *slog.Logger
}

var _ ports.ChangeFeed = (*ChangeFeed)(nil)

// NewChangeFeed creates a change feed on the inventory channel
func NewChangeFeed(db *Database, logger *slog.Logger) *ChangeFeed {
	return &ChangeFeed{
		db:           db,
		channel:      InventoryChangeChannel,
		reconnectMin: 500 * time.Millisecond,
		reconnectMax: 30 * time.Second,
		logger:       logger.With(slog.String("component", "change_feed")),
	}
}

// Subscribe starts listening and returns the event channel. The channel is
// closed once ctx is done. Lost connections are re-established with backoff.
func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	conn, err := f.db.Listen(ctx, f.channel)
	if err != nil {
		return nil, err
	}

	events := make(chan domain.ChangeEvent, changeFeedBuffer)
	go f.run(ctx, conn, events)
	return events, nil
}

func (f *ChangeFeed) run(ctx context.Context, conn *pgxpool.Conn, events chan<- domain.ChangeEvent) {
	defer close(events)

	wait := f.reconnectMin
	for {
		if conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			var err error
			conn, err = f.db.Listen(ctx, f.channel)
			if err != nil {
				f.logger.WarnContext(ctx, "change feed reconnect failed",
					slog.Duration("retry_in", wait),
					slog.String("error", err.Error()))
				wait = min(wait*2, f.reconnectMax)
				continue
			}
			f.logger.InfoContext(ctx, "change feed reconnected")
			wait = f.reconnectMin
		}

		n, err := f.db.WaitForNotification(ctx, conn)
		if err != nil {
			f.db.Unlisten(conn)
			conn = nil
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			f.logger.WarnContext(ctx, "change feed connection lost",
				slog.String("error", err.Error()))
			continue
		}

		var ev domain.ChangeEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			f.logger.WarnContext(ctx, "discarding malformed change payload",
				slog.String("payload", n.Payload),
				slog.String("error", err.Error()))
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			f.db.Unlisten(conn)
			return
		}
	}
}

package notify

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/adapter"
	"surgical-viz-client/internal/infra/metrics"
)

// Compile-time check
var _ adapter.NotificationSink = (*Feed)(nil)

// Feed is the primary NotificationSink: a bounded in-memory queue of the most
// recent notifications, held for UI display. Entries get time-sortable ULID
// ids. Extra sinks (e.g. Telegram) receive a fan-out copy; their failures are
// their own problem and never propagate.
type Feed struct {
	mu    sync.Mutex
	items []model.Notification
	limit int
	log   *zerolog.Logger
	outs  []adapter.NotificationSink
}

func NewFeed(limit int, logger *zerolog.Logger, outs ...adapter.NotificationSink) *Feed {
	if limit <= 0 {
		limit = 50
	}
	l := logger.With().Str("component", "NotificationFeed").Logger()
	return &Feed{limit: limit, log: &l, outs: outs}
}

func (f *Feed) Notify(ctx context.Context, kind model.NotificationKind, message string) {
	n := model.Notification{
		ID:      ulid.Make().String(),
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if len(f.items) > f.limit {
		f.items = f.items[len(f.items)-f.limit:]
	}
	f.mu.Unlock()

	metrics.IncNotification(string(kind))
	evt := f.log.Info()
	if kind == model.NotificationError {
		evt = f.log.Warn()
	}
	evt.Str("kind", string(kind)).Msg(message)

	for _, s := range f.outs {
		s.Notify(ctx, kind, message)
	}
}

// Recent returns up to limit notifications, newest first.
func (f *Feed) Recent(limit int) []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]model.Notification, 0, limit)
	for i := len(f.items) - 1; i >= len(f.items)-limit; i-- {
		out = append(out, f.items[i])
	}
	return out
}

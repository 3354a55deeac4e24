package adapter

import (
	"context"

	"surgical-viz-client/internal/domain/model"
)

// NotificationSink receives user-visible success/failure/info signals.
// Fire and forget: delivery is best effort and implementations must not
// block the caller or return errors.
type NotificationSink interface {
	Notify(ctx context.Context, kind model.NotificationKind, message string)
}

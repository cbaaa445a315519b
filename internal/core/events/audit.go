package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLog subscribes a handler that writes moderation events to the audit log.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	handler := func(ctx context.Context, event Event) error {
		audit.InfoContext(ctx, "audit event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(EventTypeAccountBanned, handler)
	bus.Subscribe(EventTypeAccountUnbanned, handler)
	bus.Subscribe(EventTypeSessionsReaped, handler)
}

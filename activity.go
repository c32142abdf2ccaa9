package frameflow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess          ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure          ActivityEventType = "auth.login.failure"
	ActivityEventUserRegistered        ActivityEventType = "auth.user.registered"
	ActivityEventToggleApplied         ActivityEventType = "interaction.toggle.applied"
	ActivityEventToggleRejected        ActivityEventType = "interaction.toggle.rejected"
	ActivityEventNotificationEmitted   ActivityEventType = "notification.emitted"
	ActivityEventNotificationRetracted ActivityEventType = "notification.retracted"
)

// ActivityEvent captures telemetry-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Actor      uuid.UUID
	Action     NotificationAction
	ToggleKind ToggleKind
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent)
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent)

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) {
	if f != nil {
		f(ctx, event)
	}
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) {}

func normalizeActivitySink(sink ActivitySink) ActivitySink {
	if sink == nil {
		return noopActivitySink{}
	}
	return sink
}

func recordActivity(ctx context.Context, sink ActivitySink, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	sink.Record(ctx, event)
}

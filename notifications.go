package frameflow

import (
	"context"

	"github.com/goliatone/go-errors"
)

// NotificationEmitter keeps the notification mirror of follow/like edges in
// step with toggle classifications: one record appears when an edge is
// added, and the matching record disappears when the same edge is removed.
type NotificationEmitter struct {
	store  Notifications
	logger Logger
	sink   ActivitySink
}

// NewNotificationEmitter wires the emitter.
func NewNotificationEmitter(store Notifications) *NotificationEmitter {
	return &NotificationEmitter{
		store:  store,
		logger: defLogger{},
		sink:   noopActivitySink{},
	}
}

// WithLogger replaces the default logger.
func (e *NotificationEmitter) WithLogger(logger Logger) *NotificationEmitter {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithActivitySink configures an ActivitySink for emitted/retracted events.
func (e *NotificationEmitter) WithActivitySink(sink ActivitySink) *NotificationEmitter {
	e.sink = normalizeActivitySink(sink)
	return e
}

// Apply mirrors a toggle classification onto the notification store.
// Noop and invalid classifications touch nothing.
func (e *NotificationEmitter) Apply(ctx context.Context, toggle Toggle, key NotificationKey) error {
	switch toggle.Kind {
	case ToggleAddition:
		return e.Emit(ctx, key)
	case ToggleRemoval:
		return e.Retract(ctx, key)
	default:
		return nil
	}
}

// Emit creates the notification for key unless one already exists.
func (e *NotificationEmitter) Emit(ctx context.Context, key NotificationKey) error {
	if _, err := e.store.CreateIfAbsent(ctx, key); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to emit notification")
	}

	recordActivity(ctx, e.sink, ActivityEvent{
		EventType: ActivityEventNotificationEmitted,
		Actor:     key.From,
		Action:    key.Action,
	})

	return nil
}

// Retract deletes the notification matching key, if present.
func (e *NotificationEmitter) Retract(ctx context.Context, key NotificationKey) error {
	if err := e.store.DeleteByKey(ctx, key); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to retract notification")
	}

	recordActivity(ctx, e.sink, ActivityEvent{
		EventType: ActivityEventNotificationRetracted,
		Actor:     key.From,
		Action:    key.Action,
	})

	return nil
}

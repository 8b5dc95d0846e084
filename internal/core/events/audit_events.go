package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeUserLoggedIn    = "user.logged_in"
	EventTypeUserLoginFailed = "user.login_failed"
	EventTypeUserDeleted     = "user.deleted"
	EventTypeAccessUpdated   = "access.updated"
)

// AuditEventTypes lists every event the audit log subscribes to.
var AuditEventTypes = []string{
	EventTypeUserRegistered,
	EventTypeUserLoggedIn,
	EventTypeUserLoginFailed,
	EventTypeUserDeleted,
	EventTypeAccessUpdated,
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewUserRegisteredEvent(userID int64, username string, roleID int64) BaseEvent {
	return newEvent(EventTypeUserRegistered, map[string]interface{}{
		"user_id":  userID,
		"username": username,
		"role_id":  roleID,
	})
}

func NewUserLoggedInEvent(userID int64, username string) BaseEvent {
	return newEvent(EventTypeUserLoggedIn, map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
}

// NewUserLoginFailedEvent records the attempted username only; whether it
// exists is not part of the event.
func NewUserLoginFailedEvent(username string) BaseEvent {
	return newEvent(EventTypeUserLoginFailed, map[string]interface{}{
		"username": username,
	})
}

func NewUserDeletedEvent(userID, deletedBy int64) BaseEvent {
	return newEvent(EventTypeUserDeleted, map[string]interface{}{
		"user_id":    userID,
		"deleted_by": deletedBy,
	})
}

func NewAccessUpdatedEvent(roleID int64, resource string, canCreate, canRead, canUpdate, canDelete bool, updatedBy int64) BaseEvent {
	return newEvent(EventTypeAccessUpdated, map[string]interface{}{
		"role_id":    roleID,
		"resource":   resource,
		"can_create": canCreate,
		"can_read":   canRead,
		"can_update": canUpdate,
		"can_delete": canDelete,
		"updated_by": updatedBy,
	})
}

// RegisterAuditLog subscribes a handler that writes one structured line per
// audit event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	}
	for _, eventType := range AuditEventTypes {
		bus.Subscribe(eventType, handler)
	}
}

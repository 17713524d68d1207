package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one persisted domain event.
type Entry struct {
	EventID    uuid.UUID
	EventType  string
	Resource   string
	ResourceID int64
	ActorID    int64
	OccurredAt time.Time
}

type Repository interface {
	// Save is idempotent on EventID so redelivered messages are harmless.
	Save(ctx context.Context, e *Entry) error
}

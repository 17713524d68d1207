package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itww/admin-api/pkg/logger"
	"go.uber.org/zap"
)

type EventType string

const (
	EventCreated  EventType = "created"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
	EventUploaded EventType = "uploaded"
)

const (
	ResourceBlog           = "blog"
	ResourceJobPosting     = "job_posting"
	ResourceJobApplication = "job_application"
	ResourceMedia          = "media"
)

// DomainEvent is the wire payload published after every successful mutation.
type DomainEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  EventType `json:"event_type"`
	Resource   string    `json:"resource"`
	ResourceID int64     `json:"resource_id"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewDomainEvent(t EventType, resource string, resourceID, actorID int64) DomainEvent {
	return DomainEvent{
		EventID:    uuid.New(),
		EventType:  t,
		Resource:   resource,
		ResourceID: resourceID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher must not block the request on broker round trips.
type EventPublisher interface {
	Publish(ctx context.Context, evt DomainEvent) error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, DomainEvent) error { return nil }

// PublishOrLog never fails the caller; delivery problems only reach the log.
func PublishOrLog(ctx context.Context, p EventPublisher, log logger.Logger, evt DomainEvent) {
	if err := p.Publish(ctx, evt); err != nil {
		log.Error("Failed to publish domain event", err,
			zap.String("event_type", string(evt.EventType)),
			zap.String("resource", evt.Resource),
			zap.Int64("resource_id", evt.ResourceID))
	}
}

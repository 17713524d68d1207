package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/internal/domain/audit"
	"github.com/itww/admin-api/pkg/logger"
)

var ErrMalformedEvent = errors.New("malformed domain event")

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditConsumer copies domain events into the audit log. A message is
// committed only once it is stored or known to be unreadable.
type AuditConsumer struct {
	reader    messageReader
	repo      audit.Repository
	logger    logger.Logger
	retryBase time.Duration
	retryMax  time.Duration
}

func NewAuditConsumer(cfg config.Config, repo audit.Repository, log logger.Logger) (*AuditConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return newAuditConsumer(r, repo, log), nil
}

func newAuditConsumer(r messageReader, repo audit.Repository, log logger.Logger) *AuditConsumer {
	return &AuditConsumer{
		reader:    r,
		repo:      repo,
		logger:    log,
		retryBase: 500 * time.Millisecond,
		retryMax:  30 * time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (c *AuditConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			if !sleep(ctx, c.retryBase) {
				return nil
			}
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			// Only cancellation gets here; the message stays uncommitted.
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
		}
	}
}

func (c *AuditConsumer) handle(ctx context.Context, msg kafka.Message) error {
	entry, err := decodeEntry(msg.Value)
	if err != nil {
		c.logger.Warn("Skipping malformed event", zap.Error(err),
			zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
		return nil
	}

	backoff := c.retryBase
	for {
		err := c.repo.Save(ctx, entry)
		if err == nil {
			c.logger.Debug("Audit entry stored", zap.String("event_id", entry.EventID.String()))
			return nil
		}
		c.logger.Error("Failed to store audit entry", err, zap.String("event_id", entry.EventID.String()))
		if !sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = min(backoff*2, c.retryMax)
	}
}

func (c *AuditConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka consumer", err)
	}
}

func decodeEntry(value []byte) (*audit.Entry, error) {
	var evt service.DomainEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if evt.EventID == uuid.Nil || evt.Resource == "" || evt.EventType == "" {
		return nil, fmt.Errorf("%w: missing event_id, event_type or resource", ErrMalformedEvent)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return &audit.Entry{
		EventID:    evt.EventID,
		EventType:  string(evt.EventType),
		Resource:   evt.Resource,
		ResourceID: evt.ResourceID,
		ActorID:    evt.ActorID,
		OccurredAt: evt.OccurredAt,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

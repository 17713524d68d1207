package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events to a single topic keyed by "<resource>:<id>"
// so events for one row stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger logger.Logger
}

func NewKafkaPublisher(cfg config.Config, log logger.Logger) (*KafkaPublisher, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("Failed to deliver Kafka events", err, zap.Int("count", len(messages)))
			}
		},
	}

	log.Info("Initialize Kafka Producer successfully.", zap.String("topic", cfg.Kafka.Topic))
	return &KafkaPublisher{writer: w, topic: cfg.Kafka.Topic, logger: log}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt service.DomainEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.Resource + ":" + strconv.FormatInt(evt.ResourceID, 10)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka producer", err)
		return
	}
	p.logger.Info("Closed Kafka Producer")
}

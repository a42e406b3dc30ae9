package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habit-sync/internal/config"
	"habit-sync/internal/feed"

	"github.com/segmentio/kafka-go"
)

// FeedProducer publishes public completion events to the activity feed
// topic so other clients' feeds update without polling.
type FeedProducer struct {
	writer *kafka.Writer
}

// NewFeedProducer creates a new Kafka feed producer
func NewFeedProducer(cfg *config.KafkaConfig) *FeedProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true, // Async for better performance
	}

	return &FeedProducer{
		writer: writer,
	}
}

// PublishCompletion publishes a completion event, keyed by user so per-user
// ordering holds
func (p *FeedProducer) PublishCompletion(ctx context.Context, event feed.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feed event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
		Time:  event.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish feed event: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *FeedProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

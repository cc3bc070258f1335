package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Publisher sends one keyed event. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewProducer(cfg *Config) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNop returns a Publisher that drops every event.
func NewNop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
func (nopPublisher) Close() error                               { return nil }

// MessageReader is the read side of a consumer group.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg *Config) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

func (c *KafkaConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return c.reader.ReadMessage(ctx)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

var (
	_ Publisher     = (*KafkaProducer)(nil)
	_ MessageReader = (*KafkaConsumer)(nil)
)

// Typed is implemented by events that name their own type.
type Typed interface {
	Type() string
}

type observed struct {
	Publisher
	fn func(eventType string)
}

// Observe wraps p and calls fn with the event type after each successful publish.
func Observe(p Publisher, fn func(eventType string)) Publisher {
	return &observed{Publisher: p, fn: fn}
}

func (o *observed) Publish(ctx context.Context, key string, event any) error {
	if err := o.Publisher.Publish(ctx, key, event); err != nil {
		return err
	}
	name := "unknown"
	if t, ok := event.(Typed); ok {
		name = t.Type()
	}
	o.fn(name)
	return nil
}

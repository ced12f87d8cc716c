package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/FACorreiaa/journalhub/config"
)

// Event types.
const (
	UserRegistered      = "user.registered"
	UserDeleted         = "user.deleted"
	JournalEntryCreated = "journal.created"
	JournalEntryDeleted = "journal.deleted"
)

// Event is the JSON payload written to the events topic.
type Event struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}

// Publisher emits domain events. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data map[string]string)
	Close() error
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NopPublisher{}
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewPublisher returns a Kafka-backed publisher, or a NopPublisher when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("Kafka brokers not configured, events disabled")
		return NopPublisher{}
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           publishTimeout,
	}
	return newKafkaPublisher(w, cfg.Topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger.With(slog.String("component", "KafkaPublisher"))}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data map[string]string) {
	payload, err := json.Marshal(Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to encode event", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		if err := p.writer.WriteMessages(pubCtx, msg); err != nil {
			p.logger.WarnContext(pubCtx, "Failed to publish event",
				slog.String("type", eventType), slog.String("key", key), slog.Any("error", err))
		}
	}()
}

// Close waits for in-flight events and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.wg.Wait()
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka: close writer: %w", err)
	}
	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, map[string]string) {}
func (NopPublisher) Close() error { return nil }

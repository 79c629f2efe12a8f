// Package redpanda publishes interview events to a Kafka-compatible broker.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// DefaultTopic receives all interview events.
const DefaultTopic = "interview-events"

// recordProducer is the part of *kgo.Client used to publish.
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publisher implements domain.EventPublisher on top of franz-go.
// Records are keyed by session ID so one session's events stay ordered.
type Publisher struct {
	client  recordProducer
	topic   string
	timeout time.Duration
}

// NewPublisher connects to brokers and makes sure topic exists.
func NewPublisher(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	kotelService := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))))
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequestRetries(3),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kgo.DialTimeout(10*time.Second),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := createTopicIfNotExists(ctx, client, topic, 1, 1); err != nil {
		slog.Warn("failed to ensure events topic", slog.String("topic", topic), slog.Any("error", err))
	}
	slog.Info("event publisher ready", slog.Any("brokers", brokers), slog.String("topic", topic))
	return newPublisher(client, topic), nil
}

func newPublisher(client recordProducer, topic string) *Publisher {
	return &Publisher{client: client, topic: topic, timeout: 5 * time.Second}
}

// Publish writes e and waits for the broker to acknowledge it.
func (p *Publisher) Publish(ctx domain.Context, e domain.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		observability.RecordEvent(e.Type, err)
		return fmt.Errorf("op=event.publish: marshal: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(e.SessionID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(e.Type)},
			{Key: "user_id", Value: []byte(e.UserID)},
		},
	}
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = p.client.ProduceSync(pctx, record).FirstErr()
	observability.RecordEvent(e.Type, err)
	if err != nil {
		return fmt.Errorf("op=event.publish: %w", err)
	}
	return nil
}

// Close flushes and closes the client.
func (p *Publisher) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

// NoopPublisher drops every event. It is used when no brokers are configured.
type NoopPublisher struct{}

// Publish implements domain.EventPublisher.
func (NoopPublisher) Publish(domain.Context, domain.Event) error { return nil }

// Close implements io.Closer.
func (NoopPublisher) Close() error { return nil }
